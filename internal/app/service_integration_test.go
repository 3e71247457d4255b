package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	repository "github.com/okian/morsel/internal/adapters/repository"
	service "github.com/okian/morsel/internal/app"
	"github.com/okian/morsel/internal/domain/ingest"
	"github.com/okian/morsel/internal/domain/model"
)

const (
	sourceA = `product,price,quantity,date,region
pink morsel,$3.00,2,2021-01-14,north
Pink Morsel ,$3.00,1,2021-01-14,south
gold morsel,$9.99,5,2021-01-14,north
pink morsel,$5.00,1,2021-01-16,north
`
	sourceB = `product,price,quantity,date,region
PINK MORSEL,$5.00,4,2021-01-16,east
`
	malformed = `product,price,quantity,date,region
pink morsel,$3.00,2,2021-01-14,north
pink morsel,abc,2,2021-01-15,north
`
)

func writeSource(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPipelineIntegration(t *testing.T) {
	Convey("Given raw sales files on disk", t, func() {
		ctx := context.Background()
		dir := t.TempDir()
		a := writeSource(t, dir, "daily_sales_data_0.csv", sourceA)
		b := writeSource(t, dir, "daily_sales_data_1.csv", sourceB)
		artifact := filepath.Join(dir, "out", "output.csv")

		Convey("When running ingestion", func() {
			res, err := service.RunIngest(ctx, []string{a, b}, artifact)

			Convey("Then the artifact should hold the pink morsel rows in source order", func() {
				So(err, ShouldBeNil)
				So(res.Accepted, ShouldEqual, 4)
				So(res.Skipped, ShouldEqual, 1)
				So(res.RunID, ShouldNotBeEmpty)

				ds, err := repository.ReadFile(artifact)
				So(err, ShouldBeNil)
				So(ds.Equal(res.Dataset), ShouldBeTrue)
				So(ds[3].Region, ShouldEqual, "east")
				So(ds[3].Sales.String(), ShouldEqual, "20")
			})

			Convey("And a service loading it should answer queries", func() {
				svc := service.New(service.WithArtifactPath(artifact))
				So(svc.Start(ctx), ShouldBeNil)
				defer svc.Stop()

				all, err := svc.Series(ctx, model.FilterAll)
				So(err, ShouldBeNil)
				So(all, ShouldHaveLength, 2)
				So(all[0].Total.String(), ShouldEqual, "9")
				So(all[1].Total.String(), ShouldEqual, "25")

				var sum = all.Sum()
				for _, f := range model.FilterValues()[1:] {
					part, err := svc.Series(ctx, f)
					So(err, ShouldBeNil)
					sum = sum.Sub(part.Sum())
				}
				So(sum.IsZero(), ShouldBeTrue)
				So(svc.GetStats()["origin"], ShouldEqual, artifact)
			})
		})

		Convey("When one row is malformed", func() {
			bad := writeSource(t, dir, "bad.csv", malformed)
			_, err := service.RunIngest(ctx, []string{a, bad}, artifact)

			Convey("Then ingestion should fail naming the row and write nothing", func() {
				var pe *ingest.MalformedPriceError
				So(errors.As(err, &pe), ShouldBeTrue)
				So(pe.Row, ShouldEqual, 2)
				So(pe.Source, ShouldEqual, bad)
				_, statErr := os.Stat(artifact)
				So(errors.Is(statErr, os.ErrNotExist), ShouldBeTrue)
			})
		})

		Convey("When a previous artifact exists and a new run fails", func() {
			_, err := service.RunIngest(ctx, []string{a}, artifact)
			So(err, ShouldBeNil)
			before, _ := os.ReadFile(artifact)

			_, err = service.RunIngest(ctx, []string{filepath.Join(dir, "missing.csv")}, artifact)

			Convey("Then the previous artifact should be untouched", func() {
				var nf *ingest.SourceNotFoundError
				So(errors.As(err, &nf), ShouldBeTrue)
				after, _ := os.ReadFile(artifact)
				So(string(after), ShouldEqual, string(before))
			})
		})

		Convey("When starting a service without an artifact", func() {
			Convey("And cold-start ingestion is disabled", func() {
				svc := service.New(service.WithArtifactPath(artifact))
				err := svc.Start(ctx)
				So(errors.Is(err, service.ErrNoArtifact), ShouldBeTrue)
			})

			Convey("And cold-start ingestion is enabled", func() {
				svc := service.New(
					service.WithArtifactPath(artifact),
					service.WithSources(a, b),
					service.WithIngestOnStart(true),
				)
				err := svc.Start(ctx)
				defer svc.Stop()

				Convey("Then the artifact should be built and served", func() {
					So(err, ShouldBeNil)
					_, statErr := os.Stat(artifact)
					So(statErr, ShouldBeNil)
					stats := svc.GetStats()
					So(stats["totalRecords"], ShouldEqual, 4)
					So(stats["lastIngestRunId"], ShouldNotBeEmpty)
				})
			})
		})
	})
}
