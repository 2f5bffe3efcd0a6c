package feed_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flindersuni/xamlstyle/pkg/feed"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Query().Get("q") {
		case "UiPath.Excel.Activities":
			_, _ = w.Write([]byte(`{"totalHits":2,"data":[
				{"id":"UiPath.Excel.Activities","version":"2.16.0","projectUrl":"https://example.com/excel"},
				{"id":"UiPath.Excel.Activities.Design","version":"2.9.1"}
			]}`))
		case "UiPath.Mail":
			_, _ = w.Write([]byte(`{"totalHits":2,"data":[
				{"id":"UiPath.Mail.Activities","version":"1.18.2"},
				{"id":"UiPath.Mail","version":"1.3.0"}
			]}`))
		case "UiPath.Web":
			_, _ = w.Write([]byte(`{"totalHits":1,"data":[{"id":"UiPath.WebAPI.Activities","version":"1.11.1"}]}`))
		case "Broken":
			w.WriteHeader(http.StatusInternalServerError)
		case "Slow":
			select {
			case <-r.Context().Done():
			case <-time.After(5 * time.Second):
				_, _ = w.Write([]byte(`{"totalHits":0,"data":[]}`))
			}
		case "Prerelease":
			_, _ = w.Write([]byte(`{"totalHits":1,"data":[{"id":"Prerelease","version":"22.10.4-beta"}]}`))
		case "Odd":
			_, _ = w.Write([]byte(`{"totalHits":1,"data":[{"id":"Odd","version":"nightly"}]}`))
		case "Garbage":
			_, _ = w.Write([]byte(`<html></html>`))
		default:
			_, _ = w.Write([]byte(`{"totalHits":0,"data":[]}`))
		}
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestNuGet_LatestVersion(t *testing.T) {
	t.Parallel()

	srv := newServer(t)

	tcs := map[string]struct {
		want    string
		wantErr error
		anyErr  bool
	}{
		"UiPath.Excel.Activities": {want: "2.16.0"},
		"UiPath.Mail":             {want: "1.3.0"},
		"UiPath.Web":              {want: "1.11.1"},
		"Prerelease":              {want: "22.10.4-beta"},
		"Odd":                     {want: "nightly"},
		"Unknown.Package":         {wantErr: feed.ErrNotFound},
		"":                        {wantErr: feed.ErrInvalidArgument},
		"Broken":                  {anyErr: true},
		"Garbage":                 {anyErr: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			f := feed.NewNuGet(srv.URL+"/query?q=", time.Second)

			got, err := f.LatestVersion(t.Context(), name)
			switch {
			case tc.wantErr != nil:
				require.ErrorIs(t, err, tc.wantErr)
			case tc.anyErr:
				require.Error(t, err)
				require.NotErrorIs(t, err, feed.ErrNotFound)
			default:
				require.NoError(t, err)
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestNuGet_Timeout(t *testing.T) {
	t.Parallel()

	srv := newServer(t)
	f := feed.NewNuGet(srv.URL+"/query?q=", 20*time.Millisecond)

	_, err := f.LatestVersion(t.Context(), "Slow")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNuGet_Canceled(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	released := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
		close(released)
	}))
	t.Cleanup(srv.Close)

	f := feed.NewNuGet(srv.URL+"/query?q=", time.Minute)

	ctx, cancel := context.WithCancel(t.Context())

	errc := make(chan error, 1)
	go func() {
		_, err := f.LatestVersion(ctx, "UiPath.Excel.Activities")
		errc <- err
	}()

	<-started
	cancel()

	select {
	case err := <-errc:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("lookup did not return after cancel")
	}

	// The request is aborted, not left running in the background.
	select {
	case <-released:
	case <-time.After(5 * time.Second):
		t.Fatal("request was not aborted")
	}
}

func TestNuGet_Client(t *testing.T) {
	t.Parallel()

	srv := newServer(t)

	f := &feed.NuGet{
		Client:   srv.Client(),
		QueryURL: srv.URL + "/query?q=",
	}

	for range 3 {
		got, err := f.LatestVersion(t.Context(), "UiPath.Excel.Activities")
		require.NoError(t, err)
		assert.Equal(t, "2.16.0", got)
	}
}

func TestNuGet_InvalidURL(t *testing.T) {
	t.Parallel()

	f := &feed.NuGet{}

	_, err := f.LatestVersion(t.Context(), "UiPath.Excel.Activities")
	require.Error(t, err)
}
