package model

type karmaTier struct {
	min   int
	label string
}

// Tiers in descending order of threshold.
var karmaTiers = []karmaTier{
	{1000, "Legend"},
	{500, "Expert"},
	{200, "Achiever"},
	{50, "Contributor"},
	{0, "Beginner"},
}

// KarmaLevel maps a karma total to its tier label.
func KarmaLevel(points int) string {
	for _, t := range karmaTiers {
		if points >= t.min {
			return t.label
		}
	}
	return "Beginner"
}

// NextKarmaLevel returns the next tier and its threshold, or ok=false at the top.
func NextKarmaLevel(points int) (label string, threshold int, ok bool) {
	for i := len(karmaTiers) - 1; i >= 0; i-- {
		if karmaTiers[i].min > points {
			return karmaTiers[i].label, karmaTiers[i].min, true
		}
	}
	return "", 0, false
}
