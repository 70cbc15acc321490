package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("challenge_id", "name").
		From("challenges").
		Where(Eq("challenge_id", "run-5k"), Expr("start_at <= ? AND end_at >= ?", int64(10), int64(10))).
		OrderBy("start_at", "challenge_id").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT challenge_id, name FROM challenges WHERE challenge_id = $1 AND start_at <= $2 AND end_at >= $3 ORDER BY start_at, challenge_id LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != "run-5k" || args[1] != int64(10) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_RequiresTable(t *testing.T) {
	if _, _, err := Select("a").ToSQL(); err == nil {
		t.Fatalf("expected error without table")
	}
	if _, _, err := Select().From("t").ToSQL(); err == nil {
		t.Fatalf("expected error without columns")
	}
}

func TestInsertBuilder_MultiRow(t *testing.T) {
	b := InsertInto("teams").
		Columns("team_id", "members").
		Values("red", "alice").
		Values("blue", "carol").
		Suffix("ON CONFLICT (team_id) DO NOTHING")

	query, args, err := b.ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO teams (team_id, members) VALUES ($1, $2), ($3, $4) ON CONFLICT (team_id) DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[2] != "blue" || b.Len() != 2 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_RowWidthMismatch(t *testing.T) {
	_, _, err := InsertInto("teams").Columns("team_id", "members").Values("red").ToSQL()
	if err == nil {
		t.Fatalf("expected error for short row")
	}
}
