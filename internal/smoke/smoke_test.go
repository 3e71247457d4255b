package smoke_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/morsel/internal/adapters/http/api"
	"github.com/okian/morsel/internal/adapters/http/site"
	service "github.com/okian/morsel/internal/app"
	"github.com/okian/morsel/internal/domain/model"
	"github.com/okian/morsel/internal/smoke"
	"github.com/okian/morsel/pkg/logger"
)

func dataset(extra ...model.SalesRecord) model.Dataset {
	ds := model.Dataset{
		{Date: model.MustParseDate("2021-01-14"), Region: "north", Sales: decimal.RequireFromString("10.50")},
		{Date: model.MustParseDate("2021-01-14"), Region: "south", Sales: decimal.RequireFromString("3")},
		{Date: model.MustParseDate("2021-01-15"), Region: "east", Sales: decimal.RequireFromString("7.25")},
		{Date: model.MustParseDate("2021-01-16"), Region: "west", Sales: decimal.RequireFromString("1.10")},
		{Date: model.MustParseDate("2021-01-16"), Region: "north", Sales: decimal.RequireFromString("2")},
	}
	return append(ds, extra...)
}

func newStack(ds model.Dataset) (*httptest.Server, func()) {
	ctx := context.Background()
	svc := service.New(service.WithDataset(ds), service.WithLogger(logger.Nop()))
	So(svc.Start(ctx), ShouldBeNil)

	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(ctx, mux)
	site.Register(ctx, mux)
	srv := httptest.NewServer(mux)
	return srv, func() {
		srv.Close()
		svc.Stop()
	}
}

func TestRun(t *testing.T) {
	Convey("Given a running sales server", t, func() {
		srv, stop := newStack(dataset())
		defer stop()

		Convey("When the smoke run executes", func() {
			report, err := smoke.Run(context.Background(), smoke.Config{
				BaseURL: srv.URL + "/",
				Timeout: 5 * time.Second,
				Workers: 2,
				Verbose: true,
			}, logger.Nop())

			Convey("Then every check passes", func() {
				So(err, ShouldBeNil)
				So(report, ShouldNotBeNil)
				So(report.RunID, ShouldNotBeEmpty)
				So(report.Failed(), ShouldBeEmpty)

				names := make(map[string]bool)
				for _, c := range report.Checks {
					names[c.Name] = true
				}
				for _, want := range []string{"health", "page", "regions", "stats", "series", "partition", "figure", "invalid_filter", "ordering/all", "ordering/west"} {
					So(names[want], ShouldBeTrue)
				}
			})
		})

		Convey("When a report file is requested", func() {
			path := filepath.Join(t.TempDir(), "reports", "smoke.json")
			_, err := smoke.Run(context.Background(), smoke.Config{BaseURL: srv.URL, ReportFile: path}, nil)
			So(err, ShouldBeNil)

			Convey("Then the report is written as JSON", func() {
				data, rerr := os.ReadFile(path)
				So(rerr, ShouldBeNil)
				var decoded smoke.Report
				So(json.Unmarshal(data, &decoded), ShouldBeNil)
				So(decoded.BaseURL, ShouldEqual, srv.URL)
				So(decoded.Checks, ShouldNotBeEmpty)
			})
		})
	})

	Convey("Given a dataset with a region outside the control", t, func() {
		srv, stop := newStack(dataset(model.SalesRecord{
			Date: model.MustParseDate("2021-01-14"), Region: "central", Sales: decimal.RequireFromString("4"),
		}))
		defer stop()

		Convey("Then the partition check is skipped and the run passes", func() {
			report, err := smoke.Run(context.Background(), smoke.Config{BaseURL: srv.URL}, logger.Nop())
			So(err, ShouldBeNil)
			for _, c := range report.Checks {
				So(c.Name, ShouldNotEqual, "partition")
			}
		})
	})

	Convey("Given a server whose page lacks the region control", t, func() {
		srv, stop := newStack(dataset())
		defer stop()

		broken := http.NewServeMux()
		broken.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/" {
				_, _ = w.Write([]byte(`<h1>Sales</h1><div id="sales-chart"></div>`))
				return
			}
			resp, err := http.Get(srv.URL + r.URL.RequestURI())
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadGateway)
				return
			}
			defer func() { _ = resp.Body.Close() }()
			w.WriteHeader(resp.StatusCode)
			_, _ = io.Copy(w, resp.Body)
		})
		proxy := httptest.NewServer(broken)
		defer proxy.Close()

		Convey("Then the page check fails and Run reports ErrChecksFailed", func() {
			report, err := smoke.Run(context.Background(), smoke.Config{BaseURL: proxy.URL}, logger.Nop())
			So(errors.Is(err, smoke.ErrChecksFailed), ShouldBeTrue)
			failed := report.Failed()
			So(failed, ShouldHaveLength, 1)
			So(failed[0].Name, ShouldEqual, "page")
			So(failed[0].Detail, ShouldContainSubstring, "region control")
		})
	})

	Convey("Given no server at the URL", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		Convey("Then Run fails the health check", func() {
			report, err := smoke.Run(context.Background(), smoke.Config{BaseURL: url, Timeout: time.Second}, logger.Nop())
			So(report, ShouldBeNil)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "health check")
		})
	})
}
