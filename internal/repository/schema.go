package repository

import _ "embed"

// Schema is the single source of truth for the facility database schema.
// import-data applies it to new databases; the PostgreSQL tables follow the
// same layout.
//
//go:embed schema.sql
var Schema string
