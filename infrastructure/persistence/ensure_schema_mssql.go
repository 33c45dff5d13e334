package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

var mssqlSchema = []struct {
	table string
	ddl   string
}{
	{"oauth_tokens", `CREATE TABLE dbo.[oauth_tokens] (
        id BIGINT IDENTITY(1,1) PRIMARY KEY,
        provider NVARCHAR(64) NOT NULL,
        access_token NVARCHAR(MAX) NOT NULL,
        refresh_token NVARCHAR(MAX) NULL,
        created_at DATETIME2 NOT NULL,
        updated_at DATETIME2 NOT NULL
    );
    CREATE UNIQUE INDEX UX_oauth_tokens_provider ON dbo.[oauth_tokens](provider);`},
	{"contents", `CREATE TABLE dbo.[contents] (
        id BIGINT IDENTITY(1,1) PRIMARY KEY,
        title NVARCHAR(512) NOT NULL,
        summary NVARCHAR(MAX) NULL,
        body NVARCHAR(MAX) NULL,
        published BIT NOT NULL DEFAULT 0,
        publish_on DATETIME2 NULL,
        url NVARCHAR(2048) NULL,
        image_ref NVARCHAR(1024) NULL,
        created_at DATETIME2 NOT NULL DEFAULT SYSUTCDATETIME(),
        updated_at DATETIME2 NOT NULL DEFAULT SYSUTCDATETIME()
    );`},
	{"scheduled_posts", `CREATE TABLE dbo.[scheduled_posts] (
        id BIGINT IDENTITY(1,1) PRIMARY KEY,
        content_id BIGINT NOT NULL,
        profile_id NVARCHAR(128) NOT NULL,
        profile_name NVARCHAR(255) NULL,
        profile_type NVARCHAR(32) NULL,
        post_text NVARCHAR(MAX) NOT NULL,
        scheduled_time DATETIME2 NOT NULL,
        image_ref NVARCHAR(1024) NULL,
        pinterest_board NVARCHAR(128) NULL,
        pinterest_url NVARCHAR(2048) NULL,
        remote_post_id NVARCHAR(128) NULL,
        created_at DATETIME2 NOT NULL DEFAULT SYSUTCDATETIME(),
        updated_at DATETIME2 NOT NULL DEFAULT SYSUTCDATETIME()
    );
    CREATE INDEX IX_scheduled_posts_content ON dbo.[scheduled_posts](content_id);`},
}

// EnsureSchemaMSSQL creates the publisher tables for SQL Server if they do not exist.
func EnsureSchemaMSSQL(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, s := range mssqlSchema {
		q := fmt.Sprintf(`IF NOT EXISTS (SELECT * FROM sys.objects WHERE object_id = OBJECT_ID(N'dbo.%s') AND type in (N'U'))
BEGIN
    %s
END`, s.table, s.ddl)
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create %s (mssql): %w", s.table, err)
		}
	}
	return nil
}
