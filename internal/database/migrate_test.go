package database

import (
	"context"
	"testing"
	"testing/fstest"

	"yourspace/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	require.NoError(t, registerErr)
	list := GetMigrations()
	require.NotEmpty(t, list)
	assert.Equal(t, 1, list[0].Version)
	assert.Equal(t, "init", list[0].Name)
	assert.Equal(t, "000001_init", list[0].String())

	up := list[0].UpScript
	assert.Contains(t, up, "idx_follows_pair")
	assert.Contains(t, up, "follower_id <> followed_id")
	assert.Contains(t, up, "<= 50000")
	assert.Contains(t, up, "<= 20000")

	assert.NotNil(t, GetMigrationByVersion(1))
	assert.Nil(t, GetMigrationByVersion(999))
}

func TestLoadMigrations_Validation(t *testing.T) {
	tests := []struct {
		name    string
		files   fstest.MapFS
		wantErr string
	}{
		{
			name: "missing down",
			files: fstest.MapFS{
				"m/000001_a.up.sql": {Data: []byte("SELECT 1;")},
			},
			wantErr: "down migration",
		},
		{
			name: "bad version",
			files: fstest.MapFS{
				"m/abc_a.up.sql":   {Data: []byte("SELECT 1;")},
				"m/abc_a.down.sql": {Data: []byte("SELECT 1;")},
			},
			wantErr: "invalid version",
		},
		{
			name: "duplicate version",
			files: fstest.MapFS{
				"m/000001_a.up.sql":   {Data: []byte("SELECT 1;")},
				"m/000001_a.down.sql": {Data: []byte("SELECT 1;")},
				"m/000001_b.up.sql":   {Data: []byte("SELECT 1;")},
				"m/000001_b.down.sql": {Data: []byte("SELECT 1;")},
			},
			wantErr: "used by both",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadMigrations(tt.files, "m")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func sqliteMigrations(t *testing.T) []Migration {
	t.Helper()
	files := fstest.MapFS{
		"m/000002_widgets.up.sql":   {Data: []byte("CREATE TABLE widgets (id INTEGER PRIMARY KEY);")},
		"m/000002_widgets.down.sql": {Data: []byte("DROP TABLE widgets;")},
		"m/000001_gadgets.up.sql":   {Data: []byte("CREATE TABLE gadgets (id INTEGER PRIMARY KEY);")},
		"m/000001_gadgets.down.sql": {Data: []byte("DROP TABLE gadgets;")},
		"m/README.md":               {Data: []byte("ignored")},
	}
	list, err := loadMigrations(files, "m")
	require.NoError(t, err)
	require.Len(t, list, 2)
	return list
}

func TestApplyMigrations_AppliesInOrderOnce(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()
	list := sqliteMigrations(t)
	assert.Equal(t, 1, list[0].Version)

	require.NoError(t, applyMigrations(ctx, db, list))
	require.NoError(t, applyMigrations(ctx, db, list))

	applied, err := NewMigrationStore(db).GetAppliedMigrations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, applied)
	assert.True(t, db.Migrator().HasTable("widgets"))
}

func TestApplyMigrations_RejectsUnknownApplied(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()
	list := sqliteMigrations(t)
	require.NoError(t, applyMigrations(ctx, db, list))

	err := applyMigrations(ctx, db, list[:1])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000002")
}

func TestRollback(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()
	list := sqliteMigrations(t)
	require.NoError(t, applyMigrations(ctx, db, list))

	require.NoError(t, rollback(ctx, db, list[1]))
	assert.False(t, db.Migrator().HasTable("widgets"))

	err := rollback(ctx, db, list[1])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has not been applied")
}

func TestGetAppliedMigrations_MissingTable(t *testing.T) {
	db := openSQLite(t)
	applied, err := NewMigrationStore(db).GetAppliedMigrations(context.Background())
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestPlanSchema(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		mode        string
		destructive bool
		wantSQL     bool
		wantAuto    bool
		wantErr     bool
	}{
		{"hybrid dev", "development", "", true, true, true, false},
		{"hybrid prod", "production", "hybrid", false, true, false, false},
		{"sql", "development", "SQL", false, true, false, false},
		{"auto dev", "development", "auto", false, false, true, false},
		{"auto prod refused", "production", "auto", false, false, false, true},
		{"auto prod allowed", "staging", "auto", true, false, true, false},
		{"unknown", "development", "magic", false, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := planSchema(&config.Config{
				Env:                           tt.env,
				DBSchemaMode:                  tt.mode,
				DBAutoMigrateAllowDestructive: tt.destructive,
			})
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, plan.runSQL)
			assert.Equal(t, tt.wantAuto, plan.runAuto)
			assert.NotEmpty(t, plan.mode)
		})
	}
}

func TestGetSchemaStatus_AutoModeSkipsSQL(t *testing.T) {
	db := openSQLite(t)
	status, err := GetSchemaStatus(context.Background(), db, &config.Config{Env: "development", DBSchemaMode: "auto"})
	require.NoError(t, err)
	assert.Equal(t, SchemaModeAuto, status.Mode)
	assert.False(t, status.WillRunSQL)
	assert.True(t, status.WillRunAutoMigrate)
	assert.Empty(t, status.PendingMigrations)
}

func TestApplySchema_AutoModeOnSQLite(t *testing.T) {
	db := openSQLite(t)
	err := ApplySchema(context.Background(), db, &config.Config{Env: "test", DBSchemaMode: "auto"})
	require.NoError(t, err)
	assert.True(t, db.Migrator().HasTable("follows"))
}
