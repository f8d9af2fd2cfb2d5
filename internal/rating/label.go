package rating

// Label is a human readable band of a competitiveness score.
type Label string

// Labels from the most to the least balanced match, each band is 20 points
// wide.
const (
	LabelHighlyCompetitive   Label = "Highly Competitive"   // 80 and up
	LabelCompetitive         Label = "Competitive"          // 60 to 79
	LabelSomewhatCompetitive Label = "Somewhat Competitive" // 40 to 59
	LabelLessCompetitive     Label = "Less Competitive"     // 20 to 39
	LabelNotCompetitive      Label = "Not Competitive"      // below 20
)

// CompetitivenessLabel returns the band a Competitiveness score falls in.
func CompetitivenessLabel(score int) Label {
	switch {
	case score >= 80:
		return LabelHighlyCompetitive
	case score >= 60:
		return LabelCompetitive
	case score >= 40:
		return LabelSomewhatCompetitive
	case score >= 20:
		return LabelLessCompetitive
	default:
		return LabelNotCompetitive
	}
}
