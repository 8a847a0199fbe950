package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/tidwall/gjson"
)

func execute(args ...string) (string, error) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--deadline", "2s"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCalculateCommand(t *testing.T) {
	Convey("Given the calculate command", t, func() {
		Convey("When teams are passed as arguments", func() {
			out, err := execute("calculate", "Bears", "Packers", "Chicago Bears", "--stats")

			Convey("Then it prints a result with stats", func() {
				So(err, ShouldBeNil)
				So(gjson.Valid(out), ShouldBeTrue)
				So(gjson.Get(out, "result.optimalPicks.#").Int(), ShouldBeLessThanOrEqualTo, 3)
				So(gjson.Get(out, "result.maxScore").Float(), ShouldBeGreaterThan, 0)
				So(gjson.Get(out, "result.resultType").String(), ShouldBeIn, "optimized", "greedy-matched", "greedy-timeout")
				So(gjson.Get(out, "stats.nodes").Exists(), ShouldBeTrue)
			})

			Convey("Then no player is used twice", func() {
				seen := map[string]bool{}
				for _, p := range gjson.Get(out, "result.optimalPicks.#.qb").Array() {
					So(seen[p.String()], ShouldBeFalse)
					seen[p.String()] = true
				}
			})
		})

		Convey("When the file holds something other than team names", func() {
			path := filepath.Join(t.TempDir(), "teams.json")
			So(os.WriteFile(path, []byte(`["Bears", 7]`), 0o600), ShouldBeNil)
			out, err := execute("calculate", "--file", path, "--stats")

			Convey("Then it prints the zero-score fallback", func() {
				So(err, ShouldBeNil)
				So(gjson.Get(out, "result.maxScore").Float(), ShouldEqual, 0)
				So(gjson.Get(out, "result.optimalPicks").Raw, ShouldEqual, "[]")
				So(gjson.Get(out, "result.resultType").String(), ShouldEqual, "greedy-timeout")
				So(gjson.Get(out, "stats.error").String(), ShouldNotBeEmpty)
			})
		})

		Convey("When the file is not JSON", func() {
			path := filepath.Join(t.TempDir(), "teams.json")
			So(os.WriteFile(path, []byte(`Bears,Packers`), 0o600), ShouldBeNil)
			_, err := execute("calculate", "--file", path)
			So(err, ShouldNotBeNil)
		})

		Convey("When nothing is given", func() {
			_, err := execute("calculate")
			So(err, ShouldEqual, errNoTeams)
		})

		Convey("When both arguments and a file are given", func() {
			_, err := execute("calculate", "--file", "x.json", "Bears")
			So(err, ShouldEqual, errArgsAndFile)
		})

		Convey("When the challenge is unknown", func() {
			_, err := execute("--challenge", "hat-tricks", "calculate", "Bears")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSequenceCommand(t *testing.T) {
	Convey("Given the sequence command", t, func() {
		Convey("When rounds are given", func() {
			out, err := execute("sequence", "--rounds", "5")

			Convey("Then it prints that many teams", func() {
				So(err, ShouldBeNil)
				So(gjson.Get(out, "challenge").String(), ShouldEqual, "qb-wins")
				So(gjson.Get(out, "mode").String(), ShouldEqual, "soft-repeats")
				So(gjson.Get(out, "teams.#").Int(), ShouldEqual, 5)
			})
		})

		Convey("When rounds default", func() {
			out, err := execute("sequence")
			So(err, ShouldBeNil)
			So(gjson.Get(out, "teams.#").Int(), ShouldEqual, 20)
		})

		Convey("When the weighted mode is chosen", func() {
			out, err := execute("sequence", "--mode", "weighted", "--rounds", "40")
			So(err, ShouldBeNil)
			So(gjson.Get(out, "mode").String(), ShouldEqual, "weighted")
			So(gjson.Get(out, "teams.#").Int(), ShouldEqual, 40)
		})

		Convey("When the mode is unknown", func() {
			_, err := execute("sequence", "--mode", "random")
			So(err, ShouldNotBeNil)
		})

		Convey("When rounds are negative", func() {
			_, err := execute("sequence", "-n", "-1")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestChallengesCommand(t *testing.T) {
	Convey("Given the challenges command", t, func() {
		out, err := execute("challenges")

		Convey("Then it lists the registry", func() {
			So(err, ShouldBeNil)
			var list []map[string]any
			So(json.Unmarshal([]byte(out), &list), ShouldBeNil)
			So(len(list), ShouldEqual, 2)
			So(list[0]["id"], ShouldEqual, "defensive-sacks")
			So(list[1]["id"], ShouldEqual, "qb-wins")
		})
	})
}
