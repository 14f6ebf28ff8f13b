package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("guild_id", "enabled").
		From("welcome_messages").
		Where(Eq("guild_id", "g1")).
		Limit(1).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT guild_id, enabled FROM welcome_messages WHERE guild_id = ? LIMIT 1"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != "g1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_Upsert(t *testing.T) {
	query, args, err := InsertInto("welcome_messages").
		Columns("guild_id", "enabled", "updated_at").
		Values("g1", true, "now").
		OnConflict("guild_id").
		ToSQL()
	if err != nil {
		t.Fatalf("build upsert query: %v", err)
	}

	wantQuery := "INSERT INTO welcome_messages (guild_id, enabled, updated_at) VALUES (?, ?, ?) " +
		"ON CONFLICT (guild_id) DO UPDATE SET enabled = excluded.enabled, updated_at = excluded.updated_at"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != "g1" || args[1] != true {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_ValueCountMismatch(t *testing.T) {
	if _, _, err := InsertInto("t").Columns("a", "b").Values(1).ToSQL(); err == nil {
		t.Fatalf("expected error for mismatched values")
	}
}

func TestUpsertModel(t *testing.T) {
	type row struct {
		GuildID string `db:"guild_id"`
		Enabled bool   `db:"enabled"`
		ignored string
		Skip    int `db:"-"`
	}

	query, args, err := UpsertModel("welcome_messages", row{GuildID: "g1", Enabled: true}, "guild_id")
	if err != nil {
		t.Fatalf("build upsert model: %v", err)
	}

	wantQuery := "INSERT INTO welcome_messages (guild_id, enabled) VALUES (?, ?) ON CONFLICT (guild_id) DO UPDATE SET enabled = excluded.enabled"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestColumns_PointerAndRepeatLookup(t *testing.T) {
	type row struct {
		GuildID string `db:"guild_id,pk"`
		Enabled bool   `db:"enabled"`
	}

	for range 2 {
		cols, err := Columns(&row{})
		if err != nil {
			t.Fatalf("columns: %v", err)
		}
		if len(cols) != 2 || cols[0] != "guild_id" || cols[1] != "enabled" {
			t.Fatalf("unexpected columns: %v", cols)
		}
	}
}

func TestColumns_Invalid(t *testing.T) {
	var nilRow *struct{}
	if _, err := Columns(nilRow); err == nil {
		t.Fatalf("expected error for nil model")
	}
	if _, err := Columns(42); err == nil {
		t.Fatalf("expected error for non-struct model")
	}
	if _, err := Columns(struct{ Name string }{}); err == nil {
		t.Fatalf("expected error for model without db columns")
	}
}
