package database

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE
        )`,
	`CREATE TABLE IF NOT EXISTS item_requests (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            description TEXT NOT NULL,
            requestor_id INTEGER NOT NULL REFERENCES users(id),
            created DATETIME NOT NULL
        )`,
	`CREATE TABLE IF NOT EXISTS items (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            description TEXT NOT NULL,
            available BOOLEAN NOT NULL,
            owner_id INTEGER NOT NULL REFERENCES users(id),
            request_id INTEGER REFERENCES item_requests(id)
        )`,
	`CREATE TABLE IF NOT EXISTS bookings (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            item_id INTEGER NOT NULL REFERENCES items(id),
            booker_id INTEGER NOT NULL REFERENCES users(id),
            start_at DATETIME NOT NULL,
            end_at DATETIME NOT NULL,
            status TEXT NOT NULL DEFAULT 'WAITING'
        )`,
	`CREATE TABLE IF NOT EXISTS comments (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            text TEXT NOT NULL,
            item_id INTEGER NOT NULL REFERENCES items(id),
            author_id INTEGER NOT NULL REFERENCES users(id),
            created DATETIME NOT NULL
        )`,

	`CREATE INDEX IF NOT EXISTS idx_items_owner_id ON items(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_items_request_id ON items(request_id)`,
	`CREATE INDEX IF NOT EXISTS idx_item_requests_requestor_id ON item_requests(requestor_id)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_booker_id ON bookings(booker_id)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_item_id ON bookings(item_id)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_start_at ON bookings(start_at)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_item_id ON comments(item_id)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE
        )`,
	`CREATE TABLE IF NOT EXISTS item_requests (
            id BIGSERIAL PRIMARY KEY,
            description TEXT NOT NULL,
            requestor_id BIGINT NOT NULL REFERENCES users(id),
            created TIMESTAMPTZ NOT NULL
        )`,
	`CREATE TABLE IF NOT EXISTS items (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            description TEXT NOT NULL,
            available BOOLEAN NOT NULL,
            owner_id BIGINT NOT NULL REFERENCES users(id),
            request_id BIGINT REFERENCES item_requests(id)
        )`,
	`CREATE TABLE IF NOT EXISTS bookings (
            id BIGSERIAL PRIMARY KEY,
            item_id BIGINT NOT NULL REFERENCES items(id),
            booker_id BIGINT NOT NULL REFERENCES users(id),
            start_at TIMESTAMPTZ NOT NULL,
            end_at TIMESTAMPTZ NOT NULL,
            status TEXT NOT NULL DEFAULT 'WAITING'
        )`,
	`CREATE TABLE IF NOT EXISTS comments (
            id BIGSERIAL PRIMARY KEY,
            text TEXT NOT NULL,
            item_id BIGINT NOT NULL REFERENCES items(id),
            author_id BIGINT NOT NULL REFERENCES users(id),
            created TIMESTAMPTZ NOT NULL
        )`,

	`CREATE INDEX IF NOT EXISTS idx_items_owner_id ON items(owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_items_request_id ON items(request_id)`,
	`CREATE INDEX IF NOT EXISTS idx_item_requests_requestor_id ON item_requests(requestor_id)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_booker_id ON bookings(booker_id)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_item_id ON bookings(item_id)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_start_at ON bookings(start_at)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_item_id ON comments(item_id)`,
}
