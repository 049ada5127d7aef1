package domain

// The first few levels after each prestige have reduced experience costs
var easyLevelCosts = [4]int64{500, 1000, 2000, 3500}

const flatLevelCost = 5000

const levelsPerPrestige = 100

// ExperiencePerPrestige is the total experience required for a full
// 100-level prestige cycle.
const ExperiencePerPrestige int64 = 500 + 1000 + 2000 + 3500 + flatLevelCost*(levelsPerPrestige-int64(len(easyLevelCosts)))

func costOfLevel(levelInPrestige int) int64 {
	if levelInPrestige >= 1 && levelInPrestige <= len(easyLevelCosts) {
		return easyLevelCosts[levelInPrestige-1]
	}
	return flatLevelCost
}

func StarsToExperience(stars int) int64 {
	prestiges := int64(stars / levelsPerPrestige)
	stars = stars % levelsPerPrestige

	exp := prestiges * ExperiencePerPrestige
	for star := 1; star <= stars; star++ {
		exp += costOfLevel(star)
	}

	return exp
}

func ExperienceToStars(experience int64) float64 {
	prestiges := float64(experience / ExperiencePerPrestige)
	remainingExperience := experience % ExperiencePerPrestige

	stars := prestiges * levelsPerPrestige

	for star := 1; star <= levelsPerPrestige; star++ {
		cost := costOfLevel(star)
		if remainingExperience < cost {
			// Can't afford the next level, so this is the level we are at.
			// Add the fractional progress towards the next level.
			stars += float64(remainingExperience) / float64(cost)
			break
		}
		remainingExperience -= cost
		stars++
	}

	return stars
}
