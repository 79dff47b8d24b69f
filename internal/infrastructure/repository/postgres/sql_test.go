package postgres

import (
	"database/sql"
	"testing"

	"github.com/riskibarqy/fantasy-cycling/internal/domain/race"
	"github.com/riskibarqy/fantasy-cycling/internal/domain/rider"
)

func TestStageJSONKeepsCompletionState(t *testing.T) {
	t.Run("not run stage stays without results", func(t *testing.T) {
		encoded, err := encodeJSON(race.Stage{StageURL: "s1"})
		if err != nil {
			t.Fatalf("encode stage: %v", err)
		}
		var decoded race.Stage
		if err := decodeJSON(string(encoded), &decoded); err != nil {
			t.Fatalf("decode stage: %v", err)
		}
		if race.IsStageCompleted(decoded) {
			t.Fatalf("expected stage without results to stay not completed")
		}
	})

	t.Run("completed stage with empty results stays completed", func(t *testing.T) {
		encoded, err := encodeJSON(race.Stage{StageURL: "s2", Results: []race.Result{}})
		if err != nil {
			t.Fatalf("encode stage: %v", err)
		}
		var decoded race.Stage
		if err := decodeJSON(string(encoded), &decoded); err != nil {
			t.Fatalf("decode stage: %v", err)
		}
		if !race.IsStageCompleted(decoded) {
			t.Fatalf("expected stage with results field to stay completed")
		}
	})
}

func TestDecodeJSON(t *testing.T) {
	t.Run("empty payload leaves target untouched", func(t *testing.T) {
		profile := rider.Profile{Name: "kept"}
		if err := decodeJSON("  ", &profile); err != nil {
			t.Fatalf("decode empty payload: %v", err)
		}
		if profile.Name != "kept" {
			t.Fatalf("expected target untouched, got=%+v", profile)
		}
	})

	t.Run("invalid payload fails", func(t *testing.T) {
		var profile rider.Profile
		if err := decodeJSON("{not json", &profile); err == nil {
			t.Fatalf("expected decode error")
		}
	})
}

func TestStartlistRiderModels(t *testing.T) {
	insert := newStartlistRiderInsertModel("TDF_FEMMES_2025", rider.StartlistRider{
		RiderName: "KOPECKY Lotte",
		RiderURL:  "rider/lotte-kopecky",
	})
	if insert.TeamName.Valid || insert.RiderNumber.Valid {
		t.Fatalf("expected empty optional columns to be NULL, got=%+v", insert)
	}
	if !insert.RiderURL.Valid {
		t.Fatalf("expected rider url column to be set")
	}

	row := startlistRiderTableModel{
		RiderName:   "WIEBES Lorena",
		TeamName:    sql.NullString{String: "Team SD Worx - Protime", Valid: true},
		RiderNumber: sql.NullInt64{Int64: 2, Valid: true},
	}
	got := row.toDomain()
	if got.TeamName != "Team SD Worx - Protime" || got.RiderNumber != 2 || got.RiderURL != "" {
		t.Fatalf("unexpected domain rider: %+v", got)
	}
}

func TestRaceKey(t *testing.T) {
	if got := raceKey(" tdf_femmes_2025 "); got != "TDF_FEMMES_2025" {
		t.Fatalf("unexpected race key: %s", got)
	}
}

func TestFantasyRiderInsertModel(t *testing.T) {
	got := newFantasyRiderInsertModel("TDF_FEMMES_2025", rider.FantasyRider{
		FullName:    "VOLLERING Demi",
		FantasyName: "VOLLERING Demi",
		Team:        "FDJ - SUEZ",
		Stars:       6,
	})
	if got.RaceKey != "TDF_FEMMES_2025" || got.Stars != 6 {
		t.Fatalf("unexpected insert model: %+v", got)
	}
	if got.Position.Valid {
		t.Fatalf("expected empty position to be NULL")
	}
}
