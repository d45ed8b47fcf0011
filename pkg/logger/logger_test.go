package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given an initialized logger", t, func() {
		So(Init(), ShouldBeNil)
		defer func() { So(Sync(), ShouldBeNil) }()

		Convey("Then Get returns a usable logger", func() {
			l := Get()
			So(l, ShouldNotBeNil)
			So(func() { l.Info(context.Background(), "test message", String("k", "v")) }, ShouldNotPanic)
		})

		Convey("And Named returns a child logger", func() {
			So(Named("test"), ShouldNotBeNil)
		})
	})
}

func TestLoggerFormat(t *testing.T) {
	Convey("Given a logger writing JSON into a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(), ShouldBeNil)
		SetOutput(&buf)
		So(SetFormat("json"), ShouldBeNil)
		defer func() {
			_ = SetFormat("text")
			SetOutput(os.Stdout)
		}()

		Convey("When logging with fields", func() {
			Named("engine").Warn(context.Background(), "recompute failed",
				String("metric", "co2"), Int("rows", 3), Error(errors.New("boom")))

			Convey("Then the record carries the fields and component", func() {
				var rec map[string]any
				So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
				So(rec["msg"], ShouldEqual, "recompute failed")
				So(rec["metric"], ShouldEqual, "co2")
				So(rec["component"], ShouldEqual, "engine")
				So(rec["rows"], ShouldEqual, float64(3))
				So(rec["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When the level filters a message", func() {
			So(SetLevelString("error"), ShouldBeNil)
			defer func() { _ = SetLevelString("info") }()
			Get().Info(context.Background(), "hidden")

			Convey("Then nothing is written", func() {
				So(buf.Len(), ShouldEqual, 0)
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		So(SetLevelString("debug"), ShouldBeNil)
		So(SetLevelString("WARNING"), ShouldBeNil)
		So(SetLevelString(""), ShouldBeNil)
		So(SetLevelString("verbose"), ShouldNotBeNil)
		So(SetFormat("xml"), ShouldNotBeNil)
	})
}

func TestNop(t *testing.T) {
	Convey("Given the no-op logger", t, func() {
		l := Nop().Named("x")

		Convey("Then logging is a no-op", func() {
			So(func() { l.Info(context.Background(), "dropped", String("k", "v")) }, ShouldNotPanic)
		})
	})
}
