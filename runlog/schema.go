package runlog

// migrations[i] moves the schema from version i to i+1. Append only.
var migrations = []string{
	`
CREATE TABLE IF NOT EXISTS sweeps (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at INTEGER NOT NULL,
    dataset TEXT NOT NULL,
    columns TEXT NOT NULL,
    samples INTEGER NOT NULL,
    seed INTEGER NOT NULL,
    max_iterations INTEGER NOT NULL,
    seeding TEXT NOT NULL,
    empty_cluster TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS points (
    sweep_id INTEGER NOT NULL,
    k INTEGER NOT NULL,
    wcss REAL NOT NULL,
    FOREIGN KEY (sweep_id) REFERENCES sweeps(id) ON DELETE CASCADE,
    PRIMARY KEY (sweep_id, k)
);

CREATE INDEX IF NOT EXISTS idx_sweeps_dataset ON sweeps(dataset);
`,
}
