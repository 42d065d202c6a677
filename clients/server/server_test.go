package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/craftpress/mockup/pkg/compositor"
	"github.com/craftpress/mockup/pkg/studio"
)

func testSession() *studio.Session {
	return studio.NewSession(studio.Options{
		Loader: compositor.LoaderFunc(func(ref string) (image.Image, error) {
			img := image.NewNRGBA(image.Rect(0, 0, 1200, 1200))
			for i := 3; i < len(img.Pix); i += 4 {
				img.Pix[i] = 255
			}
			return img, nil
		}),
	})
}

func newTestServer(t *testing.T) (*httptest.Server, *srv) {
	t.Helper()
	s := &srv{
		session: testSession(),
		cfg:     Config{Port: "0", MaxDesignMB: 5, MaxTemplateMB: 10},
	}
	ts := httptest.NewServer(s.routes())
	t.Cleanup(func() {
		ts.Close()
		s.session.Close()
	})
	return ts, s
}

func pngUpload(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	var img bytes.Buffer
	if err := png.Encode(&img, image.NewNRGBA(image.Rect(0, 0, 16, 16))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return multipartFile(t, img.Bytes())
}

func multipartFile(t *testing.T, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "upload.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write(data)
	mw.Close()
	return &body, mw.FormDataContentType()
}

func TestTemplatesEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/templates")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var list []templateInfo
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 5 {
		t.Fatalf("expected 5 templates, got %d", len(list))
	}
	if list[0].ID != "custom" || list[1].ID != "tshirt-white" {
		t.Errorf("unexpected catalog order: %s, %s", list[0].ID, list[1].ID)
	}
	if !list[1].Active {
		t.Error("expected tshirt-white active by default")
	}
}

func TestSelectUnknownTemplateIs404(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/templates/select", "application/json",
		strings.NewReader(`{"id":"beanie-red"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestDesignUploadResetsState(t *testing.T) {
	ts, _ := newTestServer(t)

	body, ct := pngUpload(t)
	resp, err := http.Post(ts.URL+"/api/design", ct, body)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var out struct {
		URI   string       `json:"uri"`
		State studio.State `json:"state"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.State.Position.X != 50 || out.State.Position.Y != 40 || out.State.Size != 30 {
		t.Errorf("state not reset to defaults: %+v", out.State)
	}
	if !strings.HasPrefix(out.URI, studio.HandleScheme) {
		t.Errorf("uri = %q", out.URI)
	}
}

func TestNonImageUploadIs422(t *testing.T) {
	ts, _ := newTestServer(t)

	body, ct := multipartFile(t, []byte("plain text payload"))
	resp, err := http.Post(ts.URL+"/api/design", ct, body)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
}

func TestUnknownMethodIs422(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/method", "application/json",
		strings.NewReader(`{"method":"sublimation"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
}

func TestExportBeforeRenderIs409(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/export")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
}

func TestRenderThenExport(t *testing.T) {
	ts, _ := newTestServer(t)

	body, ct := pngUpload(t)
	if resp, err := http.Post(ts.URL+"/api/design", ct, body); err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("upload design: %v (%v)", err, resp.Status)
	}

	resp, err := http.Post(ts.URL+"/api/render", "application/json", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("render status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "image/png" {
		t.Errorf("render content type = %q", got)
	}
	if _, err := png.Decode(resp.Body); err != nil {
		t.Fatalf("render payload is not PNG: %v", err)
	}

	exp, err := http.Get(ts.URL + "/api/export")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer exp.Body.Close()
	if exp.StatusCode != http.StatusOK {
		t.Fatalf("export status = %d", exp.StatusCode)
	}
	cd := exp.Header.Get("Content-Disposition")
	if !strings.Contains(cd, "t-shirt-white-screen-print-mockup.png") {
		t.Errorf("content disposition = %q", cd)
	}
}

func TestStateUpdateClamps(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/state", "application/json",
		strings.NewReader(`{"x":250,"size":500,"rotation":-90}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	var st studio.State
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Position.X != 100 || st.Size != 80 || st.Rotation != 270 {
		t.Errorf("state = %+v, want clamped (100, 80, 270)", st)
	}
}

func TestAssetRoundTrip(t *testing.T) {
	ts, s := newTestServer(t)

	uri, err := s.session.SetDesign(pngPayload(t))
	if err != nil {
		t.Fatalf("set design: %v", err)
	}

	resp, err := http.Get(ts.URL + assetURL(uri))
	if err != nil {
		t.Fatalf("get asset: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("asset status = %d", resp.StatusCode)
	}

	missing, err := http.Get(ts.URL + "/api/assets/nope")
	if err != nil {
		t.Fatalf("get missing asset: %v", err)
	}
	defer missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Fatalf("missing asset status = %d", missing.StatusCode)
	}

	req, err := http.NewRequest(http.MethodDelete, ts.URL+assetURL(uri), nil)
	if err != nil {
		t.Fatalf("build delete: %v", err)
	}
	del, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete asset: %v", err)
	}
	defer del.Body.Close()
	if del.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", del.StatusCode)
	}

	gone, err := http.Get(ts.URL + assetURL(uri))
	if err != nil {
		t.Fatalf("get released asset: %v", err)
	}
	defer gone.Body.Close()
	if gone.StatusCode != http.StatusNotFound {
		t.Fatalf("released asset status = %d", gone.StatusCode)
	}
}

func pngPayload(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 16, 16))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}
