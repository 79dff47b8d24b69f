package matching

import "sort"

// UnknownTeam groups riders that carry no team label.
const UnknownTeam = "Unknown"

// TeamMapping maps fantasy team labels to provider team labels. Each provider
// team is claimed by at most one fantasy team.
type TeamMapping map[string]TeamLink

type TeamLink struct {
	ProviderTeam string  `json:"provider_team"`
	Score        float64 `json:"score"`
}

// MatchTeams maps every fantasy team to its best provider team at threshold.
// When two fantasy teams claim the same provider team, the higher score keeps
// it and the other stays unmapped; equal scores go to the alphabetically first
// fantasy team.
func MatchTeams(fantasyTeams, providerTeams []string, threshold float64) TeamMapping {
	fantasy := uniqueSorted(fantasyTeams)
	provider := uniqueSorted(providerTeams)

	claims := make(map[string]string, len(fantasy))
	mapping := make(TeamMapping, len(fantasy))
	for _, team := range fantasy {
		best := FindBestMatch(team, provider, threshold)
		if !best.Found() {
			continue
		}

		if holder, taken := claims[best.Name]; taken {
			if mapping[holder].Score >= best.Score {
				continue
			}
			delete(mapping, holder)
		}
		claims[best.Name] = team
		mapping[team] = TeamLink{ProviderTeam: best.Name, Score: best.Score}
	}
	return mapping
}

func uniqueSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	sort.Strings(out)
	return out
}

func teamKey(team string) string {
	if team == "" {
		return UnknownTeam
	}
	return team
}
