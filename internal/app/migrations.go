package app

import "serotonyl.ru/poker-bot/internal/db/postgres"

// SQL-миграции встроены в код для упрощения деплоя.
var migrations = []postgres.Migration{
	{Version: 1, SQL: migration001GroupsPlayers},
	{Version: 2, SQL: migration002Sessions},
}

var migration001GroupsPlayers = `
CREATE TABLE IF NOT EXISTS groups (
    id BIGSERIAL PRIMARY KEY,
    tg_id BIGINT UNIQUE NOT NULL,
    name TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS players (
    id BIGSERIAL PRIMARY KEY,
    username TEXT UNIQUE,
    full_name TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT players_identity_chk CHECK (username IS NOT NULL OR full_name IS NOT NULL)
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_players_full_name_only
    ON players(full_name) WHERE username IS NULL;
`

var migration002Sessions = `
CREATE TABLE IF NOT EXISTS group_players (
    id BIGSERIAL PRIMARY KEY,
    group_id BIGINT NOT NULL REFERENCES groups(id),
    player_id BIGINT NOT NULL REFERENCES players(id),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (group_id, player_id)
);

CREATE TABLE IF NOT EXISTS game_sessions (
    id BIGSERIAL PRIMARY KEY,
    group_id BIGINT NOT NULL REFERENCES groups(id),
    date DATE NOT NULL,
    report_digest TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT game_sessions_group_date_uc UNIQUE (group_id, date)
);

CREATE TABLE IF NOT EXISTS player_results (
    id BIGSERIAL PRIMARY KEY,
    session_id BIGINT NOT NULL REFERENCES game_sessions(id),
    player_id BIGINT NOT NULL REFERENCES players(id),
    amount BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_player_results_session ON player_results(session_id);
CREATE INDEX IF NOT EXISTS idx_player_results_player ON player_results(player_id);
`
