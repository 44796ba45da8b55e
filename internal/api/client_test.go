package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != defaultAPIURL {
		t.Fatalf("url = %q, want %q", u.String(), defaultAPIURL)
	}

	u, err = parseBaseURL("example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "example.com:1234" {
		t.Fatalf("url = %q, want http://example.com:1234", u.String())
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestClient_ImageEndpoints(t *testing.T) {
	t.Parallel()

	var (
		gotUserAgent string
		gotRequestID string
		gotTitles    []string
		gotFiles     []string
		gotUploadUID string
		gotEdit      map[string]string
		gotDelete    string
		gotOrder     []OrderUpdate
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.URL.Path == pathListImages:
			if r.URL.Query().Get("userId") != "u1" {
				http.Error(w, "bad user", http.StatusBadRequest)
				return
			}
			_, _ = w.Write([]byte(`{"data":[{"_id":"b","title":"Two","image":"http://x/b.png","order":2},{"_id":"a","title":"One","image":"http://x/a.png","order":1}]}`))
		case r.URL.Path == pathUpload:
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			_ = json.Unmarshal([]byte(r.FormValue("titles")), &gotTitles)
			gotUploadUID = r.FormValue("userId")
			for _, fh := range r.MultipartForm.File["images"] {
				gotFiles = append(gotFiles, fh.Filename+":"+fh.Header.Get("Content-Type"))
			}
			_, _ = w.Write([]byte(`{"status":true,"message":"Images uploaded","data":[{"_id":"c","title":"Three","image":"http://x/c.png","order":3}]}`))
		case r.URL.Path == pathEdit:
			if r.Method != http.MethodPut {
				http.Error(w, "method", http.StatusMethodNotAllowed)
				return
			}
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			gotEdit = map[string]string{
				"title":   r.FormValue("title"),
				"imageId": r.FormValue("imageId"),
				"userId":  r.FormValue("userId"),
			}
			_, hasFile := r.MultipartForm.File["image"]
			if hasFile {
				gotEdit["file"] = "yes"
			}
			_, _ = w.Write([]byte(`{"status":true,"data":{"_id":"a","title":"Renamed","image":"http://x/a2.png","order":1}}`))
		case strings.HasPrefix(r.URL.Path, pathDelete+"/"):
			gotDelete = strings.TrimPrefix(r.URL.Path, pathDelete+"/")
			_, _ = w.Write([]byte(`{"_id":"a"}`))
		case r.URL.Path == pathChangeOrder:
			var body struct {
				UpdatedImages []OrderUpdate `json:"updatedImages"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			gotOrder = body.UpdatedImages
			_, _ = w.Write([]byte(`{"status":true}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	images, err := c.ListImages(ctx, "u1")
	if err != nil {
		t.Fatalf("ListImages returned error: %v", err)
	}
	if len(images) != 2 || images[0].ID != "b" || images[1].ImageURL != "http://x/a.png" {
		t.Fatalf("ListImages = %#v, want server order with decoded fields", images)
	}

	up, err := c.UploadImages(ctx, UploadRequest{
		UserID: "u1",
		Files: []UploadFile{
			{Name: "c.png", Title: "Three", ContentType: "image/png", Data: []byte("png")},
			{Name: "d.jpg", Title: "Four", ContentType: "image/jpeg", Data: []byte("jpg")},
		},
	})
	if err != nil {
		t.Fatalf("UploadImages returned error: %v", err)
	}
	if !up.Status || up.Message != "Images uploaded" || len(up.Data) != 1 {
		t.Fatalf("UploadImages = %#v, want status true with one record", up)
	}
	if len(gotTitles) != 2 || gotTitles[0] != "Three" || gotTitles[1] != "Four" {
		t.Fatalf("titles = %v, want [Three Four]", gotTitles)
	}
	if gotUploadUID != "u1" {
		t.Fatalf("userId = %q, want u1", gotUploadUID)
	}
	if len(gotFiles) != 2 || gotFiles[0] != "c.png:image/png" || gotFiles[1] != "d.jpg:image/jpeg" {
		t.Fatalf("files = %v, want both parts with content types", gotFiles)
	}

	edit, err := c.EditImage(ctx, EditRequest{ImageID: "a", UserID: "u1", Title: "Renamed"})
	if err != nil {
		t.Fatalf("EditImage returned error: %v", err)
	}
	if edit.Data.Title != "Renamed" || edit.Data.ImageURL != "http://x/a2.png" {
		t.Fatalf("EditImage = %#v, want renamed record", edit)
	}
	if gotEdit["title"] != "Renamed" || gotEdit["imageId"] != "a" || gotEdit["userId"] != "u1" || gotEdit["file"] != "" {
		t.Fatalf("edit form = %v, want title/imageId/userId and no file", gotEdit)
	}

	del, err := c.DeleteImage(ctx, "a", "u1")
	if err != nil {
		t.Fatalf("DeleteImage returned error: %v", err)
	}
	if !del.Truthy() {
		t.Fatalf("DeleteImage payload %s, want truthy", del.Raw)
	}
	if gotDelete != "a/u1" {
		t.Fatalf("delete path = %q, want a/u1", gotDelete)
	}

	updates := []OrderUpdate{{ID: "b", Order: 1}, {ID: "a", Order: 2}}
	if err := c.ChangeImageOrder(ctx, updates); err != nil {
		t.Fatalf("ChangeImageOrder returned error: %v", err)
	}
	if len(gotOrder) != 2 || gotOrder[0] != updates[0] || gotOrder[1] != updates[1] {
		t.Fatalf("order body = %v, want %v", gotOrder, updates)
	}

	if !strings.HasPrefix(gotUserAgent, "frame/") {
		t.Fatalf("User-Agent = %q, want frame/*", gotUserAgent)
	}
	if gotRequestID == "" {
		t.Fatalf("X-Request-ID header missing")
	}
}

func TestClient_ListRejectsRecordsWithoutID(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"title":"no id","order":1}]}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.ListImages(context.Background(), "u1")
	if err == nil || !strings.Contains(err.Error(), "invalid list response") {
		t.Fatalf("ListImages error = %v, want invalid list response", err)
	}
}

func TestClient_UploadStatusFalseIsNotAnError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":false,"message":"Quota exceeded"}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	resp, err := c.UploadImages(context.Background(), UploadRequest{
		UserID: "u1",
		Files:  []UploadFile{{Name: "a.png", Title: "Test", ContentType: "image/png", Data: []byte("x")}},
	})
	if err != nil {
		t.Fatalf("UploadImages returned error: %v", err)
	}
	if resp.Status || resp.Message != "Quota exceeded" {
		t.Fatalf("UploadImages = %#v, want status false with message", resp)
	}
}

func TestClient_HTTPErrorAndDecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case pathListImages:
			_, _ = w.Write([]byte("{not-json"))
		case pathChangeOrder:
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"status":false,"message":"Not authorized"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.ListImages(context.Background(), "u1")
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("ListImages error = %v, want decode response error", err)
	}

	err = c.ChangeImageOrder(context.Background(), nil)
	if err == nil || !strings.Contains(err.Error(), "returned status 401") {
		t.Fatalf("ChangeImageOrder error = %v, want status 401 error", err)
	}
	if !IsUnauthorized(err) {
		t.Fatalf("IsUnauthorized(%v) = false, want true", err)
	}
	if got := ServerMessage(err); got != "Not authorized" {
		t.Fatalf("ServerMessage = %q, want %q", got, "Not authorized")
	}
}

func TestClient_LoginKeepsSessionCookie(t *testing.T) {
	t.Parallel()

	var sawCookie string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case pathLogin:
			body, _ := io.ReadAll(r.Body)
			if !strings.Contains(string(body), `"email":"me@example.com"`) {
				http.Error(w, "bad body", http.StatusBadRequest)
				return
			}
			http.SetCookie(w, &http.Cookie{Name: "token", Value: "abc", Path: "/"})
			_, _ = w.Write([]byte(`{"status":true,"message":"Welcome","data":{"_id":"u1","name":"Me","email":"me@example.com"}}`))
		case pathListImages:
			if ck, err := r.Cookie("token"); err == nil {
				sawCookie = ck.Value
			}
			_, _ = w.Write([]byte(`{"data":[]}`))
		case pathLogout:
			_, _ = w.Write([]byte(`{"status":true}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	user, err := c.Login(context.Background(), " me@example.com ", "pw")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user.ID != "u1" || user.Name != "Me" {
		t.Fatalf("Login user = %#v, want u1/Me", user)
	}
	if _, err := c.ListImages(context.Background(), user.ID); err != nil {
		t.Fatalf("ListImages returned error: %v", err)
	}
	if sawCookie != "abc" {
		t.Fatalf("cookie on follow-up request = %q, want abc", sawCookie)
	}
	if len(c.Cookies()) != 1 {
		t.Fatalf("Cookies() = %v, want one cookie", c.Cookies())
	}
	if err := c.Logout(context.Background()); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if len(c.Cookies()) != 0 {
		t.Fatalf("Cookies() after logout = %v, want none", c.Cookies())
	}
}

func TestClient_RegisterFieldErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":false,"message":{"email":"Email already exists"}}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.Register(context.Background(), RegisterRequest{Name: "Me", Email: "me@example.com"})
	if err == nil {
		t.Fatalf("Register returned nil error, want rejection")
	}
	fields := RegisterFieldErrors(err)
	if fields["email"] != "Email already exists" {
		t.Fatalf("RegisterFieldErrors = %v, want email message", fields)
	}
}

func TestClient_LoginRejected(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":false,"message":"Invalid credentials"}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.Login(context.Background(), "me@example.com", "bad")
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("Login error = %v, want *StatusError", err)
	}
	if se.Message != "Invalid credentials" {
		t.Fatalf("Message = %q, want Invalid credentials", se.Message)
	}
}

func TestClient_RequiresIDs(t *testing.T) {
	c, err := NewClient("127.0.0.1:1")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, err := c.ListImages(context.Background(), " "); err == nil {
		t.Fatalf("ListImages returned nil error, want error")
	}
	if _, err := c.DeleteImage(context.Background(), "", "u1"); err == nil {
		t.Fatalf("DeleteImage returned nil error, want error")
	}
	if _, err := c.UploadImages(context.Background(), UploadRequest{UserID: "u1"}); err == nil {
		t.Fatalf("UploadImages returned nil error, want error")
	}
}
