package player

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
)

func TestChallenges(t *testing.T) {
	Convey("Given the challenge registry", t, func() {
		list := Challenges()

		Convey("Then it is sorted and complete", func() {
			So(len(list), ShouldEqual, 2)
			So(list[0].ID, ShouldEqual, "defensive-sacks")
			So(list[1].ID, ShouldEqual, "qb-wins")
			So(list[1].Enabled, ShouldBeTrue)
			So(list[0].Enabled, ShouldBeFalse)
			So(list[1].RoundsPerGame, ShouldEqual, 20)
		})

		Convey("Then unknown ids are rejected", func() {
			_, err := LookupChallenge("punt-yards")
			So(errors.Is(err, ErrUnknownChallenge), ShouldBeTrue)
		})
	})
}

func TestBuiltin(t *testing.T) {
	Convey("Given the embedded datasets", t, func() {
		Convey("When loading qb-wins", func() {
			table, err := Builtin("qb-wins")

			Convey("Then it parses with known entries", func() {
				So(err, ShouldBeNil)
				So(table.StatName, ShouldEqual, "wins")
				So(table.Len(), ShouldEqual, 237)
				brady, ok := table.Lookup("Tom Brady")
				So(ok, ShouldBeTrue)
				So(brady.Stat.Equal(decimal.NewFromInt(251)), ShouldBeTrue)
				So(brady.Teams, ShouldResemble, []string{"Patriots", "Buccaneers"})
			})
		})

		Convey("When loading the disabled sacks challenge", func() {
			table, err := Builtin("defensive-sacks")

			Convey("Then it still parses, half values included", func() {
				So(err, ShouldBeNil)
				So(table.Len(), ShouldEqual, 224)
				jones, ok := table.Lookup("Deacon Jones")
				So(ok, ShouldBeTrue)
				So(jones.Stat.String(), ShouldEqual, "173.5")
			})
		})

		Convey("When loading an unknown challenge", func() {
			_, err := Builtin("punt-yards")
			So(errors.Is(err, ErrUnknownChallenge), ShouldBeTrue)
		})
	})
}
