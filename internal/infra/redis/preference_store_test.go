package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"vocab-quiz-service/internal/app"
)

func TestPreferenceStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewPreferenceStore(newClient(mr), "alice")

	if _, ok, err := store.Get(ctx, "best_score"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := store.SetMany(ctx, map[string]string{"best_score": "9", "games_played": "3"}); err != nil {
		t.Fatalf("set many: %v", err)
	}
	if got, _ := mr.Get("vocab:prefs:alice:best_score"); got != "9" {
		t.Fatalf("expected redis key to hold 9, got %q", got)
	}
	if mr.TTL("vocab:prefs:alice:games_played") != 0 {
		t.Fatalf("expected preferences to never expire")
	}

	if err := store.Delete(ctx, "best_score", "games_played"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if mr.Exists("vocab:prefs:alice:best_score") {
		t.Fatalf("expected redis key to be removed")
	}
}

func TestScoreLedgerOnRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	now := time.UnixMilli(1_700_000_000_000)
	ledger := app.NewScoreLedgerWithClock(NewPreferenceStore(newClient(mr), ""), func() time.Time {
		now = now.Add(time.Second)
		return now
	})

	for _, score := range []int{8, 9, 8} {
		if _, err := ledger.Record(ctx, score, 10, "ALL"); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	raw, err := mr.Get("vocab:prefs:default:" + app.KeyHighScores)
	if err != nil {
		t.Fatalf("read ledger key: %v", err)
	}
	want := "9|10|1700000002000|ALL|10;8|10|1700000003000|ALL|10;8|10|1700000001000|ALL|10"
	if raw != want {
		t.Fatalf("unexpected stored ledger:\n got %s\nwant %s", raw, want)
	}

	newBest, err := ledger.UpdateScore(ctx, 9)
	if err != nil || !newBest {
		t.Fatalf("expected first score to be a new best, got %v (err %v)", newBest, err)
	}
	stats, err := ledger.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.BestScore != 9 || stats.GamesPlayed != 1 || stats.TotalScore != 9 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestScoreLedgerSharedAcrossClients(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	// Each ledger has its own client and store, like separate server
	// processes sharing one profile.
	const ledgers, gamesEach = 4, 15
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < ledgers; i++ {
		client := newClient(mr)
		defer client.Close()
		ledger := app.NewScoreLedger(NewPreferenceStore(client, "shared"))
		wg.Add(1)
		go func() {
			defer wg.Done()
			for g := 0; g < gamesEach; g++ {
				if _, _, err := ledger.RecordGame(ctx, 3, 5, "ALL"); err != nil {
					t.Errorf("record game: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	stats, err := app.NewScoreLedger(NewPreferenceStore(newClient(mr), "shared")).Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.GamesPlayed != ledgers*gamesEach || stats.TotalScore != 3*ledgers*gamesEach {
		t.Fatalf("lost updates: %+v", stats)
	}
}

func TestPreferenceStoreUpdateReadsAndWrites(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewPreferenceStore(newClient(mr), "bob")
	if err := store.Set(ctx, "total_score", "4"); err != nil {
		t.Fatalf("set: %v", err)
	}

	err = store.Update(ctx, []string{"total_score", "games_played"}, func(current map[string]string) (map[string]string, error) {
		if _, ok := current["games_played"]; ok {
			t.Errorf("missing key reported as present: %v", current)
		}
		return map[string]string{"total_score": current["total_score"] + "0", "games_played": "1"}, nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got, _ := mr.Get("vocab:prefs:bob:total_score"); got != "40" {
		t.Fatalf("expected 40, got %q", got)
	}
	if got, _ := mr.Get("vocab:prefs:bob:games_played"); got != "1" {
		t.Fatalf("expected 1, got %q", got)
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
