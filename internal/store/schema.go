package store

// Schema v1 - Normalised collection schema
const schemaV1 = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
  version INTEGER PRIMARY KEY,
  applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Releases keyed by the remote catalog id
CREATE TABLE IF NOT EXISTS releases (
  id INTEGER PRIMARY KEY,
  master_id INTEGER DEFAULT 0,
  title TEXT NOT NULL DEFAULT '',
  year TEXT DEFAULT '',
  thumb_url TEXT DEFAULT '',
  release_url TEXT DEFAULT '',
  format TEXT DEFAULT '',
  date_added DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Artists keyed by the remote catalog id; sort_name filled in lazily
CREATE TABLE IF NOT EXISTS artists (
  id INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  sort_name TEXT
);

-- Lookup tables with locally assigned surrogate keys
CREATE TABLE IF NOT EXISTS genres (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS styles (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS labels (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT UNIQUE NOT NULL
);

-- Junction tables, rewritten per release on every re-ingest
CREATE TABLE IF NOT EXISTS release_artists (
  release_id INTEGER REFERENCES releases(id),
  artist_id INTEGER REFERENCES artists(id),
  is_primary INTEGER NOT NULL DEFAULT 0,
  PRIMARY KEY (release_id, artist_id)
);

CREATE TABLE IF NOT EXISTS release_genres (
  release_id INTEGER REFERENCES releases(id),
  genre_id INTEGER REFERENCES genres(id),
  PRIMARY KEY (release_id, genre_id)
);

CREATE TABLE IF NOT EXISTS release_styles (
  release_id INTEGER REFERENCES releases(id),
  style_id INTEGER REFERENCES styles(id),
  PRIMARY KEY (release_id, style_id)
);

-- catno lives on the join row: one label can issue a release under
-- multiple catalog numbers
CREATE TABLE IF NOT EXISTS release_labels (
  release_id INTEGER REFERENCES releases(id),
  label_id INTEGER REFERENCES labels(id),
  catno TEXT DEFAULT '',
  PRIMARY KEY (release_id, label_id, catno)
);
`

// Schema v2 - Performance indexes
const schemaV2 = `
CREATE INDEX IF NOT EXISTS idx_release_artists_artist ON release_artists(artist_id);
CREATE INDEX IF NOT EXISTS idx_release_genres_genre ON release_genres(genre_id);
CREATE INDEX IF NOT EXISTS idx_release_styles_style ON release_styles(style_id);
CREATE INDEX IF NOT EXISTS idx_release_labels_label ON release_labels(label_id);
CREATE INDEX IF NOT EXISTS idx_releases_format ON releases(format);
CREATE INDEX IF NOT EXISTS idx_artists_sort_name ON artists(sort_name);
`
