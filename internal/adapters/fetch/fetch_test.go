package fetch_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/medbench/internal/adapters/fetch"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFetch(t *testing.T) {
	Convey("Given a remote serving a CSV", t, func() {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			hits.Add(1)
			_, _ = w.Write([]byte("Model,mean\nm,0.5\n"))
		}))
		defer srv.Close()

		cache := filepath.Join(t.TempDir(), "nested", "metrics.csv")
		f := fetch.New(srv.URL, cache, fetch.WithTimeout(time.Second))

		Convey("When fetching", func() {
			res, err := f.Fetch(context.Background())

			Convey("Then the body is returned fresh and cached", func() {
				So(err, ShouldBeNil)
				So(res.Stale, ShouldBeFalse)
				So(res.Source, ShouldEqual, srv.URL)
				So(string(res.Body), ShouldStartWith, "Model,mean")

				cached, err := os.ReadFile(cache)
				So(err, ShouldBeNil)
				So(string(cached), ShouldEqual, string(res.Body))
			})
		})

		Convey("When the cache is preferred and present", func() {
			So(os.MkdirAll(filepath.Dir(cache), 0o755), ShouldBeNil)
			So(os.WriteFile(cache, []byte("cached"), 0o644), ShouldBeNil)
			res, err := fetch.New(srv.URL, cache, fetch.WithPreferCache(true)).Fetch(context.Background())

			Convey("Then the remote is not contacted", func() {
				So(err, ShouldBeNil)
				So(string(res.Body), ShouldEqual, "cached")
				So(res.Source, ShouldEqual, cache)
				So(hits.Load(), ShouldEqual, int32(0))
			})
		})
	})

	Convey("Given a failing remote", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()
		cache := filepath.Join(t.TempDir(), "metrics.csv")

		Convey("When a cached copy exists", func() {
			So(os.WriteFile(cache, []byte("old"), 0o644), ShouldBeNil)
			res, err := fetch.New(srv.URL, cache).Fetch(context.Background())

			Convey("Then the stale copy is served", func() {
				So(err, ShouldBeNil)
				So(res.Stale, ShouldBeTrue)
				So(string(res.Body), ShouldEqual, "old")
			})
		})

		Convey("When there is no cache", func() {
			_, err := fetch.New(srv.URL, cache).Fetch(context.Background())

			Convey("Then the source is unavailable", func() {
				So(errors.Is(err, fetch.ErrSourceUnavailable), ShouldBeTrue)
				So(errors.Is(err, fetch.ErrUnexpectedStatus), ShouldBeTrue)
			})
		})
	})

	Convey("Given no URL and no cache", t, func() {
		_, err := fetch.New("", "").Fetch(context.Background())
		So(errors.Is(err, fetch.ErrSourceUnavailable), ShouldBeTrue)
		So(errors.Is(err, fetch.ErrMissingURL), ShouldBeTrue)
	})

	Convey("Given a remote serving more than the size limit", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("0123456789abcdef"))
		}))
		defer srv.Close()
		cache := filepath.Join(t.TempDir(), "metrics.csv")

		Convey("When the body exceeds the limit and a cache exists", func() {
			So(os.WriteFile(cache, []byte("old"), 0o644), ShouldBeNil)
			res, err := fetch.New(srv.URL, cache, fetch.WithMaxBytes(10)).Fetch(context.Background())

			Convey("Then the oversized body is rejected and the cache is served", func() {
				So(err, ShouldBeNil)
				So(res.Stale, ShouldBeTrue)
				So(string(res.Body), ShouldEqual, "old")
			})
		})

		Convey("When the body exceeds the limit and there is no cache", func() {
			_, err := fetch.New(srv.URL, cache, fetch.WithMaxBytes(10)).Fetch(context.Background())
			So(errors.Is(err, fetch.ErrSourceUnavailable), ShouldBeTrue)
			So(errors.Is(err, fetch.ErrBodyTooLarge), ShouldBeTrue)
			_, statErr := os.Stat(cache)
			So(os.IsNotExist(statErr), ShouldBeTrue)
		})

		Convey("When the body fits the limit exactly", func() {
			res, err := fetch.New(srv.URL, cache, fetch.WithMaxBytes(16)).Fetch(context.Background())
			So(err, ShouldBeNil)
			So(len(res.Body), ShouldEqual, 16)
		})
	})
}
