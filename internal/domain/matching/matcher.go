package matching

import (
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/fantasy-cycling/internal/domain/race"
	"github.com/riskibarqy/fantasy-cycling/internal/domain/rider"
)

const defaultWorkers = 8

// Matcher resolves fantasy riders against startlist and stage results.
// It holds no mutable state and is safe for concurrent use.
type Matcher struct {
	threshold   float64
	workers     int
	requireTeam bool
	raceMatch   func(rider.FantasyRider, *rider.Profile, race.Data) MatchResult
}

type Option func(*Matcher)

// WithThreshold sets the minimum rider similarity. Team mapping always uses DefaultThreshold.
func WithThreshold(threshold float64) Option {
	return func(m *Matcher) {
		if threshold > 0 && threshold <= 1 {
			m.threshold = threshold
		}
	}
}

// WithWorkers sets how many riders are matched concurrently. One or less runs inline.
func WithWorkers(workers int) Option {
	return func(m *Matcher) {
		m.workers = workers
	}
}

// WithRequireTeamMatch stops riders of unmapped teams from being searched across the whole field.
func WithRequireTeamMatch(require bool) Option {
	return func(m *Matcher) {
		m.requireTeam = require
	}
}

func NewMatcher(opts ...Option) *Matcher {
	m := &Matcher{
		threshold: DefaultThreshold,
		workers:   defaultWorkers,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.raceMatch = m.MatchFantasyToRaceResults
	return m
}

func (m *Matcher) Threshold() float64 {
	return m.threshold
}

// MatchFantasyToStartlist resolves fantasy riders to startlist entries, keyed
// by fantasy full name. When both sides carry team labels, teams are mapped
// first and a rider of a mapped team is compared with that team's roster.
// Riders without an in-team hit, riders of unmapped teams, and all riders when
// labels are missing are compared with the whole startlist (TierField).
func (m *Matcher) MatchFantasyToStartlist(fantasy []rider.FantasyRider, startlist []rider.StartlistRider) map[string]StartlistMatch {
	matches := make(map[string]StartlistMatch, len(fantasy))
	if len(startlist) == 0 {
		return matches
	}

	if !fantasyHasTeams(fantasy) || !startlistHasTeams(startlist) {
		for _, item := range fantasy {
			if item.FullName == "" {
				continue
			}
			if match, ok := m.matchInField(item.FullName, startlist, TierField); ok {
				matches[item.FullName] = match
			}
		}
		return matches
	}

	byTeam := make(map[string][]rider.StartlistRider)
	providerTeams := make([]string, 0)
	for _, entry := range startlist {
		key := teamKey(entry.TeamName)
		if _, ok := byTeam[key]; !ok {
			providerTeams = append(providerTeams, key)
		}
		byTeam[key] = append(byTeam[key], entry)
	}

	fantasyTeams := make([]string, 0, len(fantasy))
	for _, item := range fantasy {
		fantasyTeams = append(fantasyTeams, teamKey(item.Team))
	}
	teams := MatchTeams(fantasyTeams, providerTeams, DefaultThreshold)

	for _, item := range fantasy {
		if item.FullName == "" {
			continue
		}

		link, mapped := teams[teamKey(item.Team)]
		if mapped {
			if match, ok := m.matchInField(item.FullName, byTeam[link.ProviderTeam], TierTeam); ok {
				matches[item.FullName] = match
				continue
			}
		}
		// A team can map to the wrong provider team; without a hit there the
		// rider is searched across the field unless team matches are required.
		if m.requireTeam {
			continue
		}
		if match, ok := m.matchInField(item.FullName, startlist, TierField); ok {
			matches[item.FullName] = match
		}
	}
	return matches
}

func (m *Matcher) matchInField(name string, field []rider.StartlistRider, tier Tier) (StartlistMatch, bool) {
	names := make([]string, len(field))
	for i, entry := range field {
		names[i] = entry.RiderName
	}

	best := FindBestMatch(name, names, m.threshold)
	if !best.Found() {
		return StartlistMatch{}, false
	}

	entry := field[best.Index]
	return StartlistMatch{
		Rider:       entry,
		MatchedName: entry.RiderName,
		RiderURL:    entry.RiderURL,
		Confidence:  best.Score,
		Tier:        tier,
	}, true
}

// MatchFantasyToRaceResults searches every completed stage for the rider
// under its fantasy name, provider name and full name, and keeps the single
// best scoring stage row. Ties keep the first row found.
func (m *Matcher) MatchFantasyToRaceResults(fantasyRider rider.FantasyRider, profile *rider.Profile, data race.Data) MatchResult {
	var pcsName string
	if profile != nil {
		pcsName = profile.Name
	}

	result := MatchResult{
		FantasyName:   fantasyRider.FantasyName,
		PCSName:       pcsName,
		Method:        MethodNoMatch,
		CanonicalName: fallbackName(fantasyRider),
	}
	if profile != nil {
		result.RiderURL = profile.RiderURL
		result.Nationality = profile.Nationality
	}

	candidates := candidateNames(fantasyRider.FantasyName, pcsName, fantasyRider.FullName)
	if len(candidates) == 0 {
		result.Method = MethodNoName
		return result
	}

	type stageRows struct {
		results []race.Result
		names   []string
	}
	stages := make([]stageRows, 0, len(data.Stages))
	for _, stage := range data.Stages {
		if !race.IsStageCompleted(stage) || len(stage.Results) == 0 {
			continue
		}
		names := make([]string, len(stage.Results))
		for i, row := range stage.Results {
			names[i] = row.RiderName
		}
		stages = append(stages, stageRows{results: stage.Results, names: names})
	}

	var (
		best      race.Result
		bestScore float64
		found     bool
		winner    int
	)
	stageHits := make([]int, len(candidates))
	for ci, name := range candidates {
		for _, stage := range stages {
			hit := FindBestMatch(name, stage.names, m.threshold)
			if !hit.Found() {
				continue
			}
			stageHits[ci]++
			if !found || hit.Score > bestScore {
				best, bestScore, found, winner = stage.results[hit.Index], hit.Score, true, ci
			}
		}
	}
	if !found {
		return result
	}

	result.Confidence = bestScore
	result.Method = classify(bestScore, m.threshold)
	result.StageName = best.RiderName
	result.CanonicalName = best.RiderName
	result.TeamName = best.TeamName
	result.Age = best.Age
	result.RiderNumber = best.RiderNumber
	result.MatchedStages = stageHits[winner]
	if best.RiderURL != "" {
		result.RiderURL = best.RiderURL
	}
	if best.Nationality != "" {
		result.Nationality = best.Nationality
	}
	return result
}

// MatchAllRiders resolves startlist matches, attaches cached provider
// profiles reached through the matched rider URL, then matches each enriched
// rider against stage results. Riders without a fantasy name are skipped.
// Results are keyed by fantasy name; on duplicates the later roster entry wins.
// A rider whose matching panics is returned unmatched with MatchError set.
func (m *Matcher) MatchAllRiders(
	fantasy []rider.FantasyRider,
	startlist []rider.StartlistRider,
	profiles map[string]rider.Profile,
	data race.Data,
) (map[string]RiderMatchInfo, error) {
	startlistMatches := m.MatchFantasyToStartlist(fantasy, startlist)
	infos := make([]*RiderMatchInfo, len(fantasy))

	if m.workers <= 1 {
		for i, item := range fantasy {
			if item.FantasyName == "" {
				continue
			}
			info := m.safeMatchRider(item, startlistMatches, profiles, data)
			infos[i] = &info
		}
		return collect(infos), nil
	}

	pool, err := ants.NewPool(m.workers)
	if err != nil {
		return nil, fmt.Errorf("create matching pool: %w", err)
	}
	defer pool.Release()

	var (
		wg        sync.WaitGroup
		submitErr error
	)
	for i, item := range fantasy {
		if item.FantasyName == "" {
			continue
		}
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			info := m.safeMatchRider(item, startlistMatches, profiles, data)
			infos[i] = &info
		}); err != nil {
			wg.Done()
			submitErr = fmt.Errorf("submit rider %q: %w", item.FantasyName, err)
			break
		}
	}
	wg.Wait()
	if submitErr != nil {
		return nil, submitErr
	}

	return collect(infos), nil
}

func (m *Matcher) safeMatchRider(
	item rider.FantasyRider,
	startlistMatches map[string]StartlistMatch,
	profiles map[string]rider.Profile,
	data race.Data,
) (info RiderMatchInfo) {
	defer func() {
		if r := recover(); r != nil {
			info = unmatched(item)
			info.MatchError = fmt.Sprintf("matching panicked: %v", r)
		}
	}()
	return m.matchRider(item, startlistMatches, profiles, data)
}

func (m *Matcher) matchRider(
	item rider.FantasyRider,
	startlistMatches map[string]StartlistMatch,
	profiles map[string]rider.Profile,
	data race.Data,
) RiderMatchInfo {
	info := RiderMatchInfo{Rider: item}
	if match, ok := startlistMatches[item.FullName]; ok && item.FullName != "" {
		info.StartlistMatch = &match
		if match.RiderURL != "" {
			if profile, ok := profiles[match.RiderURL]; ok {
				info.Profile = &profile
			}
		}
	}

	info.RaceMatch = m.raceMatch(item, info.Profile, data)
	info.HasPCSData = info.Profile != nil && info.Profile.Usable()
	info.HasRaceData = info.RaceMatch.Confidence >= m.threshold
	info.CanonicalName = info.RaceMatch.CanonicalName
	return info
}

func unmatched(item rider.FantasyRider) RiderMatchInfo {
	name := fallbackName(item)
	return RiderMatchInfo{
		Rider: item,
		RaceMatch: MatchResult{
			FantasyName:   item.FantasyName,
			Method:        MethodNoMatch,
			CanonicalName: name,
		},
		CanonicalName: name,
	}
}

func collect(infos []*RiderMatchInfo) map[string]RiderMatchInfo {
	out := make(map[string]RiderMatchInfo, len(infos))
	for _, info := range infos {
		if info == nil {
			continue
		}
		out[info.Rider.FantasyName] = *info
	}
	return out
}

func candidateNames(names ...string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

func fallbackName(item rider.FantasyRider) string {
	if item.FantasyName != "" {
		return item.FantasyName
	}
	return item.FullName
}

func fantasyHasTeams(riders []rider.FantasyRider) bool {
	for _, item := range riders {
		if item.Team != "" {
			return true
		}
	}
	return false
}

func startlistHasTeams(riders []rider.StartlistRider) bool {
	for _, item := range riders {
		if item.TeamName != "" {
			return true
		}
	}
	return false
}
