package memory

import (
	"bytes"
	"os"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/fantasy-cycling/internal/domain/race"
	"github.com/riskibarqy/fantasy-cycling/internal/domain/rider"
)

const RaceKeyTDFFemmes2025 = "TDF_FEMMES_2025"

// Dataset is the full content of the in-memory store.
type Dataset struct {
	Races    map[string]RaceDataset `json:"races"`
	Profiles []rider.Profile        `json:"profiles,omitempty"`
}

type RaceDataset struct {
	FantasyRiders []rider.FantasyRider   `json:"fantasy_riders"`
	Startlist     []rider.StartlistRider `json:"startlist,omitempty"`
	Stages        []race.Stage           `json:"stages,omitempty"`
}

// Repositories holds the memory implementations built from one dataset.
type Repositories struct {
	Fantasy   *FantasyRepository
	Startlist *StartlistRepository
	Profiles  *ProfileRepository
	Race      *RaceRepository
}

func NewRepositories(ds Dataset) Repositories {
	rosters := make(map[string][]rider.FantasyRider, len(ds.Races))
	startlists := make(map[string][]rider.StartlistRider, len(ds.Races))
	stages := make(map[string][]race.Stage, len(ds.Races))
	for key, item := range ds.Races {
		rosters[key] = item.FantasyRiders
		startlists[key] = item.Startlist
		stages[key] = item.Stages
	}

	return Repositories{
		Fantasy:   NewFantasyRepository(rosters),
		Startlist: NewStartlistRepository(startlists),
		Profiles:  NewProfileRepository(ds.Profiles),
		Race:      NewRaceRepository(stages),
	}
}

// LoadDataset reads a dataset file. A bare JSON array is read as the fantasy
// roster of defaultRaceKey, the layout the fantasy game exports.
func LoadDataset(path, defaultRaceKey string) (Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, crerr.Wrapf(err, "read dataset %s", path)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var roster []rider.FantasyRider
		if err := sonic.Unmarshal(trimmed, &roster); err != nil {
			return Dataset{}, crerr.Wrapf(err, "decode fantasy roster %s", path)
		}
		return Dataset{Races: map[string]RaceDataset{
			raceKey(defaultRaceKey): {FantasyRiders: roster},
		}}, nil
	}

	var ds Dataset
	if err := sonic.Unmarshal(trimmed, &ds); err != nil {
		return Dataset{}, crerr.Wrapf(err, "decode dataset %s", path)
	}
	if ds.Races == nil {
		ds.Races = map[string]RaceDataset{}
	}
	return ds, nil
}

// SeedDataset is a small built-in roster used when no dataset file is configured.
func SeedDataset() Dataset {
	return Dataset{
		Races: map[string]RaceDataset{
			RaceKeyTDFFemmes2025: {
				FantasyRiders: []rider.FantasyRider{
					{FullName: "KOPECKY Lotte", FantasyName: "L. Kopecky", Team: "Team SD Worx", Stars: 5},
					{FullName: "VOLLERING Demi", FantasyName: "D. Vollering", Team: "FDJ-Suez", Stars: 5},
					{FullName: "WIEBES Lorena", FantasyName: "L. Wiebes", Team: "Team SD Worx", Stars: 4},
					{FullName: "REUSSER Marlen", FantasyName: "M. Reusser", Team: "Movistar", Stars: 4},
					{FullName: "FERRAND-PRÉVOT Pauline", FantasyName: "P. Ferrand-Prévot", Team: "Visma | Lease a Bike", Stars: 3},
					{FullName: "NIEWIADOMA Katarzyna", FantasyName: "K. Niewiadoma", Team: "Canyon//SRAM", Stars: 3},
					{FullName: "BALSAMO Elisa", FantasyName: "E. Balsamo", Team: "Lidl-Trek", Stars: 2},
					{FullName: "LONGO BORGHINI Elisa", FantasyName: "E. Longo Borghini", Team: "UAE Team ADQ", Stars: 3},
				},
				Startlist: []rider.StartlistRider{
					{RiderName: "KOPECKY Lotte", RiderURL: "rider/lotte-kopecky", TeamName: "Team SD Worx - Protime", RiderNumber: 1, Nationality: "BE"},
					{RiderName: "WIEBES Lorena", RiderURL: "rider/lorena-wiebes", TeamName: "Team SD Worx - Protime", RiderNumber: 2, Nationality: "NL"},
					{RiderName: "VOLLERING Demi", RiderURL: "rider/demi-vollering", TeamName: "FDJ - SUEZ", RiderNumber: 11, Nationality: "NL"},
					{RiderName: "REUSSER Marlen", RiderURL: "rider/marlen-reusser", TeamName: "Movistar Team", RiderNumber: 21, Nationality: "CH"},
					{RiderName: "FERRAND PRÉVOT Pauline", RiderURL: "rider/pauline-ferrand-prevot", TeamName: "Visma | Lease a Bike", RiderNumber: 31, Nationality: "FR"},
					{RiderName: "NIEWIADOMA Katarzyna", RiderURL: "rider/katarzyna-niewiadoma", TeamName: "CANYON//SRAM zondacrypto", RiderNumber: 41, Nationality: "PL"},
					{RiderName: "BALSAMO Elisa", RiderURL: "rider/elisa-balsamo", TeamName: "Lidl - Trek", RiderNumber: 51, Nationality: "IT"},
					{RiderName: "LONGO BORGHINI Elisa", RiderURL: "rider/elisa-longo-borghini", TeamName: "UAE Team ADQ", RiderNumber: 61, Nationality: "IT"},
				},
			},
		},
	}
}
