package user

// EarnedBadges returns the badges a settled prediction newly grants,
// given the award it scored and the user's point total after the
// award was applied. Already-held badges are never granted twice and
// never revoked, so a user who crosses the High Roller threshold and
// later drops below it keeps the badge.
func EarnedBadges(held []string, award, totalPoints int) []string {
	has := func(name string) bool {
		for _, b := range held {
			if b == name {
				return true
			}
		}
		return false
	}

	var out []string
	if award == 50 && !has(BadgeSniper) {
		out = append(out, BadgeSniper)
	}
	if totalPoints >= HighRollerThreshold && !has(BadgeHighRoller) {
		out = append(out, BadgeHighRoller)
	}
	return out
}
