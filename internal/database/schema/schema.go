package schema

// SchemaSQL contains the full database schema initialization script
const SchemaSQL = `
-- Quest records. Roster and waitlist are insertion-ordered user id arrays.
CREATE TABLE IF NOT EXISTS quests (
    quest_id VARCHAR(16) PRIMARY KEY,
    guild_id TEXT NOT NULL,
    thread_id TEXT NOT NULL,
    dm_id TEXT NOT NULL,
    title TEXT NOT NULL,
    status VARCHAR(16) NOT NULL,
    mode VARCHAR(16),
    quest_type VARCHAR(16),
    system TEXT,
    max_players INTEGER NOT NULL DEFAULT 0,
    roster TEXT[] NOT NULL DEFAULT '{}',
    waitlist TEXT[] NOT NULL DEFAULT '{}',
    embed_channel_id TEXT,
    embed_message_id TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_quests_thread ON quests(thread_id);
CREATE INDEX IF NOT EXISTS idx_quests_guild ON quests(guild_id);
CREATE INDEX IF NOT EXISTS idx_quests_status ON quests(status);

-- Per-day counters backing ddmmyy-xxxx quest id generation.
CREATE TABLE IF NOT EXISTS quest_id_counters (
    date_key CHAR(6) PRIMARY KEY,
    counter INTEGER NOT NULL
);

-- Per-guild board configuration written by /setup.
CREATE TABLE IF NOT EXISTS guild_configs (
    guild_id TEXT PRIMARY KEY,
    forum_channel_id TEXT,
    embed_channel_id TEXT,
    ping_role_online TEXT,
    ping_role_offline TEXT,
    ping_role_oneshot TEXT,
    ping_role_campaign TEXT
);
`
