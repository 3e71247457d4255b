package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSiteHandler(t *testing.T) {
	Convey("Given the chart page registered on a mux", t, func() {
		ctx := context.Background()
		mux := http.NewServeMux()
		Register(ctx, mux)

		Convey("When requesting /", func() {
			req := httptest.NewRequest("GET", "/", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			body := w.Body.String()

			Convey("Then it should render the header, filter and chart container", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
				So(body, ShouldContainSubstring, "<h1 id=\"header\">Pink Morsel Sales Visualization</h1>")
				So(body, ShouldContainSubstring, `id="region-filter"`)
				So(body, ShouldContainSubstring, `id="sales-chart"`)
				So(body, ShouldContainSubstring, `src="/chart.js"`)
			})

			Convey("And the filter should offer five radio inputs with all selected", func() {
				So(strings.Count(body, `type="radio"`), ShouldEqual, 5)
				for _, v := range []string{"all", "north", "east", "south", "west"} {
					So(body, ShouldContainSubstring, `value="`+v+`"`)
				}
				So(body, ShouldContainSubstring, `value="all" checked`)
				So(strings.Count(body, "checked"), ShouldEqual, 1)
			})
		})

		Convey("When requesting the chart script", func() {
			req := httptest.NewRequest("GET", "/chart.js", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should fetch figures and replace the chart", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "/api/figure?region=")
				So(w.Body.String(), ShouldContainSubstring, "replaceChildren")
			})
		})

		Convey("When requesting an unknown asset", func() {
			req := httptest.NewRequest("GET", "/some-asset", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When posting to /", func() {
			req := httptest.NewRequest("POST", "/", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})

	Convey("Given a custom title", t, func() {
		h, err := NewRootHandler(WithTitle("Q1 <Sales>"))
		So(err, ShouldBeNil)

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/index.html", nil))

		Convey("Then the title should be escaped into the page", func() {
			So(w.Body.String(), ShouldContainSubstring, "Q1 &lt;Sales&gt;")
		})
	})
}

func TestSiteErrors(t *testing.T) {
	Convey("Given site error constants", t, func() {
		So(ErrTemplate.Error(), ShouldEqual, "chart page template failed")
	})
}

func TestSiteHandlerWithNilMux(t *testing.T) {
	Convey("Given a nil mux", t, func() {
		So(func() {
			Register(context.Background(), nil)
		}, ShouldPanic)
	})
}
