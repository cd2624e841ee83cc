package domain

// boundingBox is an inclusive lat/lon rectangle in WGS-84 degrees.
type boundingBox struct {
	minLat, maxLat float64
	minLon, maxLon float64
}

func (b boundingBox) contains(lat, lon float64) bool {
	return lat >= b.minLat && lat <= b.maxLat && lon >= b.minLon && lon <= b.maxLon
}

// NationwideRegionCode is returned when coordinates fall inside the feed's
// coverage area but outside every regional box.
const NationwideRegionCode = "uk"

// regionBoxes maps coordinates to the regional warnings feed codes. Boxes
// overlap along region borders; the list is scanned in order and the first
// match wins, so the ordering below is load-bearing. Scotland first, then
// Northern Ireland, northern England southward, Wales, and the southern
// English regions, with "se" ahead of "ee" because Greater London sits in
// the overlap of the two.
var regionBoxes = []struct {
	code string
	name string
	box  boundingBox
}{
	{"he", "Highlands & Eilean Siar", boundingBox{56.7, 58.7, -7.5, -3.0}},
	{"gr", "Grampian", boundingBox{56.8, 57.9, -3.8, -1.7}},
	{"ta", "Central, Tayside & Fife", boundingBox{56.0, 56.9, -4.5, -2.4}},
	{"st", "Strathclyde", boundingBox{55.0, 56.6, -6.0, -3.8}},
	{"dg", "Dumfries, Galloway, Lothian & Borders", boundingBox{54.6, 56.0, -5.2, -2.0}},
	{"ni", "Northern Ireland", boundingBox{54.0, 55.3, -8.2, -5.3}},
	{"ne", "North East England", boundingBox{54.4, 55.8, -2.6, -1.2}},
	{"nw", "North West England", boundingBox{53.3, 55.2, -3.7, -2.0}},
	{"yh", "Yorkshire & Humber", boundingBox{53.3, 54.6, -2.6, 0.2}},
	{"wl", "Wales", boundingBox{51.3, 53.5, -5.4, -2.6}},
	{"wm", "West Midlands", boundingBox{52.0, 53.3, -3.2, -1.2}},
	{"em", "East Midlands", boundingBox{52.3, 53.7, -2.0, 0.4}},
	{"sw", "South West England", boundingBox{49.9, 51.7, -6.5, -2.2}},
	{"se", "London & South East England", boundingBox{50.6, 52.2, -1.6, 1.5}},
	{"ee", "East of England", boundingBox{51.5, 53.1, -1.0, 1.8}},
}

// coverageBox is the regional provider's overall coverage area. Outside it
// neither the regional feed nor the structured warnings endpoint applies.
var coverageBox = boundingBox{49.5, 61.0, -8.5, 2.0}

// RegionCode resolves coordinates to a regional feed code, falling back to
// the nationwide code when no box matches.
func RegionCode(lat, lon float64) string {
	for _, r := range regionBoxes {
		if r.box.contains(lat, lon) {
			return r.code
		}
	}
	return NationwideRegionCode
}

// InFeedCoverage reports whether coordinates fall inside the regional
// provider's coverage area.
func InFeedCoverage(lat, lon float64) bool {
	return coverageBox.contains(lat, lon)
}
