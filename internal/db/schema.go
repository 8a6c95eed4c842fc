package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY,
    first_name TEXT,
    last_name TEXT,
    username TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS competitions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    sport_type TEXT NOT NULL DEFAULT 'бег',
    comp_type TEXT DEFAULT '',
    organizer TEXT DEFAULT '',
    city TEXT DEFAULT '',
    date TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS competition_participants (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL REFERENCES users(id),
    competition_id INTEGER NOT NULL REFERENCES competitions(id),
    distance REAL DEFAULT 0,
    distance_name TEXT DEFAULT '',
    status TEXT NOT NULL DEFAULT 'registered',
    finish_time TEXT DEFAULT '',
    target_time TEXT DEFAULT '',
    place_overall INTEGER DEFAULT 0,
    place_age_category INTEGER DEFAULT 0,
    age_category TEXT DEFAULT '',
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (user_id, competition_id, distance, distance_name)
);

CREATE TABLE IF NOT EXISTS trainings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL REFERENCES users(id),
    date TEXT NOT NULL,
    distance REAL DEFAULT 0,
    start_time TEXT DEFAULT '',
    comment TEXT DEFAULT '',
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS user_achievements (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL REFERENCES users(id),
    achievement_id TEXT NOT NULL,
    awarded_at DATETIME NOT NULL,
    UNIQUE (user_id, achievement_id)
);

CREATE TABLE IF NOT EXISTS personal_records (
    user_id INTEGER NOT NULL REFERENCES users(id),
    distance REAL NOT NULL,
    best_time TEXT NOT NULL,
    best_seconds INTEGER NOT NULL,
    competition_id INTEGER DEFAULT 0,
    date TEXT DEFAULT '',
    PRIMARY KEY (user_id, distance)
);

CREATE INDEX IF NOT EXISTS idx_participants_user ON competition_participants(user_id);
CREATE INDEX IF NOT EXISTS idx_trainings_user_date ON trainings(user_id, date);
CREATE INDEX IF NOT EXISTS idx_achievements_user ON user_achievements(user_id);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
