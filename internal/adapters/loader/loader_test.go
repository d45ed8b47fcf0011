package loader_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/carbonview/internal/adapters/loader"
	. "github.com/smartystreets/goconvey/convey"
)

const emissionsCSV = `iso_code,country,year,co2
USA,United States,2000,6000.5
,World,2000,25000
CHN,China,2000,
`

const observatoryCSV = `% daily in situ CO2
% comment line
  1958,  03,  30,  316.16,  1,  12
  1958,  03,  31,  NaN
`

func writeFile(dir, name, body string) string {
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		panic(err)
	}
	return p
}

func TestParse(t *testing.T) {
	Convey("Given a CSV with a header row", t, func() {
		raw, err := loader.Parse(loader.Source{Name: "emissions"}, strings.NewReader(emissionsCSV))

		Convey("Then cells are keyed by header name", func() {
			So(err, ShouldBeNil)
			So(raw.Name, ShouldEqual, "emissions")
			So(raw.Header, ShouldResemble, []string{"iso_code", "country", "year", "co2"})
			So(raw.Rows, ShouldHaveLength, 3)
			So(raw.Rows[0]["co2"], ShouldEqual, "6000.5")
			So(raw.Rows[1]["iso_code"], ShouldEqual, "")
			So(raw.Rows[2]["co2"], ShouldEqual, "")
		})
	})

	Convey("Given a header-less file with leading comment rows", t, func() {
		src := loader.Source{
			Name:     "observatory",
			SkipRows: 2,
			Columns:  []string{"Yr", "Mn", "Dy", "CO2", "NHrs", "Scale"},
		}
		raw, err := loader.Parse(src, strings.NewReader(observatoryCSV))

		Convey("Then explicit column names are applied and cells trimmed", func() {
			So(err, ShouldBeNil)
			So(raw.Rows, ShouldHaveLength, 2)
			So(raw.Rows[0]["Mn"], ShouldEqual, "03")
			So(raw.Rows[0]["CO2"], ShouldEqual, "316.16")
			So(raw.Rows[1]["CO2"], ShouldEqual, "NaN")
			So(raw.Rows[1]["Scale"], ShouldEqual, "")
		})
	})

	Convey("Given fewer rows than SkipRows", t, func() {
		_, err := loader.Parse(loader.Source{SkipRows: 10}, strings.NewReader("a\nb\n"))
		So(err, ShouldNotBeNil)
	})

	Convey("Given an empty input without explicit columns", t, func() {
		_, err := loader.Parse(loader.Source{}, strings.NewReader(""))
		So(err, ShouldNotBeNil)
	})
}

func TestLoad(t *testing.T) {
	Convey("Given a loader", t, func() {
		ctx := context.Background()
		l := loader.New(loader.WithTimeout(2 * time.Second))

		Convey("When the source is a local file", func() {
			p := writeFile(t.TempDir(), "co2.csv", emissionsCSV)
			raw, err := l.Load(ctx, loader.Source{Name: "emissions", Location: p})

			Convey("Then the file is parsed", func() {
				So(err, ShouldBeNil)
				So(raw.Rows, ShouldHaveLength, 3)
			})
		})

		Convey("When the file is missing", func() {
			_, err := l.Load(ctx, loader.Source{Name: "emissions", Location: "/nonexistent/co2.csv"})

			Convey("Then ErrDataUnavailable is returned", func() {
				So(errors.Is(err, loader.ErrDataUnavailable), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "emissions")
			})
		})

		Convey("When the location is empty", func() {
			_, err := l.Load(ctx, loader.Source{Name: "mix"})
			So(errors.Is(err, loader.ErrDataUnavailable), ShouldBeTrue)
		})

		Convey("When the source is served over HTTP", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/missing.csv" {
					http.NotFound(w, r)
					return
				}
				_, _ = w.Write([]byte(emissionsCSV))
			}))
			defer srv.Close()
			remote := loader.New(loader.WithHTTPClient(srv.Client()))

			raw, err := remote.Load(ctx, loader.Source{Name: "emissions", Location: srv.URL + "/co2.csv"})
			So(err, ShouldBeNil)
			So(raw.Rows[0]["country"], ShouldEqual, "United States")

			_, err = remote.Load(ctx, loader.Source{Name: "emissions", Location: srv.URL + "/missing.csv"})
			So(errors.Is(err, loader.ErrDataUnavailable), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "404")
		})
	})
}

func TestLoadAll(t *testing.T) {
	Convey("Given several sources", t, func() {
		dir := t.TempDir()
		a := writeFile(dir, "a.csv", emissionsCSV)
		b := writeFile(dir, "b.csv", "Entity,Year\nA,2000\n")
		l := loader.New()

		Convey("When all of them load", func() {
			out, err := l.LoadAll(context.Background(),
				loader.Source{Name: "a", Location: a},
				loader.Source{Name: "b", Location: b},
			)

			Convey("Then tables are keyed by source name", func() {
				So(err, ShouldBeNil)
				So(out, ShouldHaveLength, 2)
				So(out["b"].Rows, ShouldHaveLength, 1)
			})
		})

		Convey("When one of them fails", func() {
			out, err := l.LoadAll(context.Background(),
				loader.Source{Name: "a", Location: a},
				loader.Source{Name: "c", Location: filepath.Join(dir, "nope.csv")},
			)

			Convey("Then the whole load fails", func() {
				So(out, ShouldBeNil)
				So(errors.Is(err, loader.ErrDataUnavailable), ShouldBeTrue)
			})
		})
	})
}
