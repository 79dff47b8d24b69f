package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/fantasy-cycling/internal/domain/rider"
)

type fantasyRiderTableModel struct {
	ID          int64          `db:"id"`
	RaceKey     string         `db:"race_key"`
	FullName    string         `db:"full_name"`
	FantasyName string         `db:"fantasy_name"`
	Team        string         `db:"team"`
	Stars       int            `db:"stars"`
	Position    sql.NullString `db:"position"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (m fantasyRiderTableModel) toDomain() rider.FantasyRider {
	return rider.FantasyRider{
		FullName:    m.FullName,
		FantasyName: m.FantasyName,
		Team:        m.Team,
		Stars:       m.Stars,
		Position:    m.Position.String,
	}
}

type fantasyRiderInsertModel struct {
	RaceKey     string         `db:"race_key"`
	FullName    string         `db:"full_name"`
	FantasyName string         `db:"fantasy_name"`
	Team        string         `db:"team"`
	Stars       int            `db:"stars"`
	Position    sql.NullString `db:"position"`
}

func newFantasyRiderInsertModel(key string, item rider.FantasyRider) fantasyRiderInsertModel {
	return fantasyRiderInsertModel{
		RaceKey:     key,
		FullName:    item.FullName,
		FantasyName: item.FantasyName,
		Team:        item.Team,
		Stars:       item.Stars,
		Position:    nullString(item.Position),
	}
}

type startlistRiderTableModel struct {
	ID          int64          `db:"id"`
	RaceKey     string         `db:"race_key"`
	RiderName   string         `db:"rider_name"`
	RiderURL    sql.NullString `db:"rider_url"`
	TeamName    sql.NullString `db:"team_name"`
	TeamURL     sql.NullString `db:"team_url"`
	RiderNumber sql.NullInt64  `db:"rider_number"`
	Nationality sql.NullString `db:"nationality"`
	Age         sql.NullInt64  `db:"age"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (m startlistRiderTableModel) toDomain() rider.StartlistRider {
	return rider.StartlistRider{
		RiderName:   m.RiderName,
		RiderURL:    m.RiderURL.String,
		TeamName:    m.TeamName.String,
		TeamURL:     m.TeamURL.String,
		RiderNumber: int(m.RiderNumber.Int64),
		Nationality: m.Nationality.String,
		Age:         int(m.Age.Int64),
	}
}

type startlistRiderInsertModel struct {
	RaceKey     string         `db:"race_key"`
	RiderName   string         `db:"rider_name"`
	RiderURL    sql.NullString `db:"rider_url"`
	TeamName    sql.NullString `db:"team_name"`
	TeamURL     sql.NullString `db:"team_url"`
	RiderNumber sql.NullInt64  `db:"rider_number"`
	Nationality sql.NullString `db:"nationality"`
	Age         sql.NullInt64  `db:"age"`
}

func newStartlistRiderInsertModel(key string, item rider.StartlistRider) startlistRiderInsertModel {
	return startlistRiderInsertModel{
		RaceKey:     key,
		RiderName:   item.RiderName,
		RiderURL:    nullString(item.RiderURL),
		TeamName:    nullString(item.TeamName),
		TeamURL:     nullString(item.TeamURL),
		RiderNumber: nullInt(item.RiderNumber),
		Nationality: nullString(item.Nationality),
		Age:         nullInt(item.Age),
	}
}

type riderProfileTableModel struct {
	RiderURL   string         `db:"rider_url"`
	Payload    string         `db:"payload"`
	FetchError sql.NullString `db:"fetch_error"`
	FetchedAt  time.Time      `db:"fetched_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

type riderProfileUpsertModel struct {
	RiderURL   string         `db:"rider_url"`
	Payload    string         `db:"payload"`
	FetchError sql.NullString `db:"fetch_error"`
	FetchedAt  time.Time      `db:"fetched_at"`
	UpdatedAt  time.Time      `db:"updated_at"`
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

func nullInt(value int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(value), Valid: value != 0}
}
