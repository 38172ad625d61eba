package importer

// Area is a latitude/longitude rectangle in degrees
type Area struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// Contains checks whether a point in degrees lies inside the area, borders included
func (a Area) Contains(lat, lon float64) bool {
	return lat >= a.MinLat && lat <= a.MaxLat && lon >= a.MinLon && lon <= a.MaxLon
}

// MetropoleArea is the bounding box of the Métropole Rouen Normandie extreme
// points. Regional feeds are cut down to it.
var MetropoleArea = Area{
	MinLat: 49.25066,
	MaxLat: 49.54676,
	MinLon: 0.77446,
	MaxLon: 1.28984,
}
