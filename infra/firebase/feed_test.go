package firebase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/plaroapp/plaro/domain"
)

// fakeDB emulates just enough of the realtime-database REST surface:
// GET/POST/DELETE on a node, PATCH multi-path updates at the root.
type fakeDB struct {
	tree    map[string]any
	pushSeq int
}

func newFakeDB() *fakeDB {
	return &fakeDB{tree: map[string]any{}}
}

func (db *fakeDB) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.Trim(strings.TrimSuffix(r.URL.Path, ".json"), "/")
		switch r.Method {
		case http.MethodGet:
			node, ok := db.walk(path)
			if !ok {
				fmt.Fprint(w, "null")
				return
			}
			json.NewEncoder(w).Encode(node)
		case http.MethodPost:
			var v any
			json.NewDecoder(r.Body).Decode(&v)
			db.pushSeq++
			key := fmt.Sprintf("-N%03d", db.pushSeq)
			db.set(path+"/"+key, v)
			json.NewEncoder(w).Encode(map[string]string{"name": key})
		case http.MethodPatch:
			var fields map[string]any
			json.NewDecoder(r.Body).Decode(&fields)
			for p, v := range fields {
				full := strings.Trim(p, "/")
				if path != "" {
					full = path + "/" + full
				}
				if v == nil {
					db.delete(full)
				} else {
					db.set(full, v)
				}
			}
			fmt.Fprint(w, "{}")
		case http.MethodDelete:
			db.delete(path)
			fmt.Fprint(w, "null")
		default:
			http.Error(w, "unsupported", http.StatusMethodNotAllowed)
		}
	})
}

func (db *fakeDB) walk(path string) (any, bool) {
	if path == "" {
		return db.tree, true
	}
	var node any = db.tree
	for _, part := range strings.Split(path, "/") {
		m, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		node, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

func (db *fakeDB) set(path string, v any) {
	parts := strings.Split(path, "/")
	node := db.tree
	for _, part := range parts[:len(parts)-1] {
		child, ok := node[part].(map[string]any)
		if !ok {
			child = map[string]any{}
			node[part] = child
		}
		node = child
	}
	node[parts[len(parts)-1]] = v
}

func (db *fakeDB) delete(path string) {
	parts := strings.Split(path, "/")
	node := db.tree
	for _, part := range parts[:len(parts)-1] {
		child, ok := node[part].(map[string]any)
		if !ok {
			return
		}
		node = child
	}
	delete(node, parts[len(parts)-1])
}

func (db *fakeDB) get(t *testing.T, path string) any {
	t.Helper()
	node, ok := db.walk(path)
	if !ok {
		t.Fatalf("expected node at %s", path)
	}
	return node
}

func signedInIdentity(uid, name string) *Identity {
	id := NewIdentity("test-key")
	id.session = &session{uid: uid, displayName: name, idToken: "tok-" + uid}
	return id
}

func newTestFeed(t *testing.T, db *fakeDB, id *Identity) *FeedService {
	t.Helper()
	srv := httptest.NewServer(db.handler())
	t.Cleanup(srv.Close)
	svc := NewFeedService(NewClient(srv.URL, id), id)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return svc
}

func seedPost(db *fakeDB, key, authorID string, likes int, at time.Time) {
	db.set("posts/"+key, map[string]any{
		"id":         key,
		"content":    "seeded " + key,
		"authorId":   authorID,
		"authorName": "Seeder",
		"timestamp":  at.UTC().Format(time.RFC3339Nano),
		"likes":      float64(likes),
	})
}

func TestCreate_PushesRecordAndStampsKey(t *testing.T) {
	db := newFakeDB()
	svc := newTestFeed(t, db, signedInIdentity("u1", "Alice"))

	post, err := svc.Create(context.Background(), "hello <world>", nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if post.ID != "-N001" {
		t.Fatalf("expected backend-issued key, got %q", post.ID)
	}
	if post.Content != "hello &lt;world&gt;" {
		t.Fatalf("content must be escaped: %q", post.Content)
	}

	stored := db.get(t, "posts/-N001").(map[string]any)
	if stored["id"] != "-N001" || stored["authorId"] != "u1" || stored["authorName"] != "Alice" {
		t.Fatalf("unexpected stored record: %#v", stored)
	}
	if got := svc.Posts(); len(got) != 1 || got[0].ID != "-N001" {
		t.Fatalf("snapshot must include the new post: %#v", got)
	}
}

func TestCreate_RequiresSession(t *testing.T) {
	svc := newTestFeed(t, newFakeDB(), NewIdentity("test-key"))
	_, err := svc.Create(context.Background(), "hello", nil)
	if !errors.Is(err, domain.ErrSignedOut) {
		t.Fatalf("expected ErrSignedOut, got %v", err)
	}
}

func TestCreate_RejectsEmptySubmission(t *testing.T) {
	svc := newTestFeed(t, newFakeDB(), signedInIdentity("u1", "Alice"))
	_, err := svc.Create(context.Background(), "  ", nil)
	if !errors.Is(err, domain.ErrEmptyPost) {
		t.Fatalf("expected ErrEmptyPost, got %v", err)
	}
}

func TestLoad_SortsNewestFirstAndMarksViewerLikes(t *testing.T) {
	db := newFakeDB()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seedPost(db, "old", "u2", 3, base)
	seedPost(db, "new", "u2", 0, base.Add(time.Hour))
	db.set("postLikes/old/u1", true)

	svc := newTestFeed(t, db, signedInIdentity("u1", "Alice"))
	posts, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(posts) != 2 || posts[0].ID != "new" || posts[1].ID != "old" {
		t.Fatalf("posts must sort newest first: %#v", posts)
	}
	if !posts[1].LikedBySelf || posts[1].LikeCount != 3 {
		t.Fatalf("viewer like marker lost: %#v", posts[1])
	}
	if posts[0].LikedBySelf {
		t.Fatalf("unliked post must not be marked")
	}
}

func TestToggleLike_WritesCounterAndMarkerTogether(t *testing.T) {
	db := newFakeDB()
	seedPost(db, "p1", "u2", 0, time.Now())
	svc := newTestFeed(t, db, signedInIdentity("u1", "Alice"))
	if _, err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	liked, err := svc.ToggleLike(context.Background(), "p1")
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if !liked.LikedBySelf || liked.LikeCount != 1 {
		t.Fatalf("unexpected like state: %#v", liked)
	}
	if db.get(t, "posts/p1").(map[string]any)["likes"] != float64(1) {
		t.Fatalf("counter not written")
	}
	if db.get(t, "postLikes/p1/u1") != true {
		t.Fatalf("marker not written")
	}

	unliked, err := svc.ToggleLike(context.Background(), "p1")
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if unliked.LikedBySelf || unliked.LikeCount != 0 {
		t.Fatalf("toggle must be an involution: %#v", unliked)
	}
	if _, ok := db.walk("postLikes/p1/u1"); ok {
		t.Fatalf("marker must be removed on unlike")
	}
}

func TestToggleLike_MissingPostIsNotFound(t *testing.T) {
	svc := newTestFeed(t, newFakeDB(), signedInIdentity("u1", "Alice"))
	_, err := svc.ToggleLike(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete_ChecksOwnershipAndIsIdempotent(t *testing.T) {
	db := newFakeDB()
	seedPost(db, "mine", "u1", 0, time.Now())
	seedPost(db, "theirs", "u2", 0, time.Now())
	db.set("postLikes/mine/u2", true)
	svc := newTestFeed(t, db, signedInIdentity("u1", "Alice"))
	if _, err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if err := svc.Delete(context.Background(), "theirs"); err == nil {
		t.Fatalf("deleting another user's post must fail")
	}
	if err := svc.Delete(context.Background(), "mine"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, ok := db.walk("posts/mine"); ok {
		t.Fatalf("post must be removed")
	}
	if _, ok := db.walk("postLikes/mine"); ok {
		t.Fatalf("like markers must be cleaned up")
	}
	// A post that already left the feed is a harmless no-op.
	if err := svc.Delete(context.Background(), "mine"); err != nil {
		t.Fatalf("second delete must be a no-op, got %v", err)
	}
	if len(svc.Posts()) != 1 {
		t.Fatalf("snapshot must keep the other post")
	}
}

func TestUpdate_PatchesContentInPlace(t *testing.T) {
	db := newFakeDB()
	seedPost(db, "p1", "u1", 0, time.Now())
	svc := newTestFeed(t, db, signedInIdentity("u1", "Alice"))
	if _, err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if _, err := svc.ToggleEditing("p1"); err != nil {
		t.Fatalf("toggle editing failed: %v", err)
	}

	updated, err := svc.Update(context.Background(), "p1", "new <text>")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Editing || updated.Content != "new &lt;text&gt;" {
		t.Fatalf("unexpected post after update: %#v", updated)
	}
	if db.get(t, "posts/p1").(map[string]any)["content"] != "new &lt;text&gt;" {
		t.Fatalf("content not written through")
	}
}

func TestAddComment_AppendsAndRewritesList(t *testing.T) {
	db := newFakeDB()
	seedPost(db, "p1", "u2", 0, time.Now())
	svc := newTestFeed(t, db, signedInIdentity("u1", "Alice"))
	if _, err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	first, err := svc.AddComment(context.Background(), "p1", "nice")
	if err != nil {
		t.Fatalf("comment failed: %v", err)
	}
	second, err := svc.AddComment(context.Background(), "p1", "again")
	if err != nil {
		t.Fatalf("comment failed: %v", err)
	}
	if len(second.Comments) != 2 || second.Comments[0].Content != "nice" {
		t.Fatalf("comments must append in order: %#v", second.Comments)
	}
	if first.Comments[0].ID == second.Comments[1].ID {
		t.Fatalf("comment ids must be unique")
	}
	stored := db.get(t, "posts/p1/comments").([]any)
	if len(stored) != 2 {
		t.Fatalf("comment list must be rewritten, got %d entries", len(stored))
	}
}
