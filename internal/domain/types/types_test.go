package types_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/morsel/internal/domain/model"
	types "github.com/okian/morsel/internal/domain/types"
)

func TestSeriesResponse(t *testing.T) {
	Convey("Given a daily series", t, func() {
		series := model.DailySeries{
			{Date: model.MustParseDate("2021-01-14"), Total: decimal.RequireFromString("10.50")},
			{Date: model.MustParseDate("2021-01-15"), Total: decimal.RequireFromString("3")},
		}

		Convey("When converting it for the API", func() {
			resp := types.NewSeriesResponse("north", series)
			body, err := json.Marshal(resp)

			Convey("Then dates and sales should be encoded as strings", func() {
				So(err, ShouldBeNil)
				So(string(body), ShouldEqual,
					`{"region":"north","points":[{"date":"2021-01-14","sales":"10.5"},{"date":"2021-01-15","sales":"3"}]}`)
			})

			Convey("And decoding should give the same series back", func() {
				var decoded types.SeriesResponse
				So(json.Unmarshal(body, &decoded), ShouldBeNil)
				So(decoded.Region, ShouldEqual, "north")
				So(decoded.Series().Equal(series), ShouldBeTrue)
			})
		})

		Convey("When the series is empty", func() {
			body, err := json.Marshal(types.NewSeriesResponse(model.FilterAll, model.DailySeries{}))

			Convey("Then points should be an empty array, not null", func() {
				So(err, ShouldBeNil)
				So(string(body), ShouldEqual, `{"region":"all","points":[]}`)
			})
		})
	})
}

func TestRegionTotal(t *testing.T) {
	Convey("Given a region total", t, func() {
		body, err := json.Marshal(types.RegionTotal{Region: "west", Sales: decimal.RequireFromString("0.10")})

		Convey("Then it should marshal the decimal as a string", func() {
			So(err, ShouldBeNil)
			So(string(body), ShouldEqual, `{"region":"west","sales":"0.1"}`)
		})
	})
}
