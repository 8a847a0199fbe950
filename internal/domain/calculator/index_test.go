package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewIndex(t *testing.T) {
	Convey("Given a table with ties, renames and repeated teams", t, func() {
		table := mustTable(t,
			p("Zed", "50", "Bears"),
			p("Abe", "50", "Bears"),
			p("Max", "90", "Chicago Bears", "Bears"),
			p("Low", "1", "Bears"),
			p("Joe Theismann", "77", "Redskins"),
			p("Kirk", "20", "Washington Commanders"),
		)

		ix, err := NewIndex(table, 3, DefaultPriming())
		So(err, ShouldBeNil)

		Convey("Then eligible lists are ordered by stat desc then name asc", func() {
			So(ix.Eligible("Bears"), ShouldResemble, []string{"Max", "Abe", "Zed", "Low"})
		})

		Convey("Then a player listing a team twice appears once", func() {
			count := 0
			for _, n := range ix.Eligible("Chicago Bears") {
				if n == "Max" {
					count++
				}
			}
			So(count, ShouldEqual, 1)
		})

		Convey("Then the shortlist keeps the top K", func() {
			So(ix.Shortlist("bears"), ShouldResemble, []string{"Max", "Abe", "Zed"})
		})

		Convey("Then renamed franchises share one bucket", func() {
			So(ix.Eligible("Washington Redskins"), ShouldResemble, []string{"Joe Theismann", "Kirk"})
			So(ix.Eligible("Commanders"), ShouldResemble, []string{"Joe Theismann", "Kirk"})
		})

		Convey("Then unknown teams have no players", func() {
			So(ix.Eligible("Bulldogs"), ShouldBeEmpty)
			So(ix.Size(), ShouldEqual, 6)
		})
	})

	Convey("Given invalid arguments", t, func() {
		_, err := NewIndex(nil, 3, DefaultPriming())
		So(err, ShouldEqual, ErrNilTable)

		_, err = NewIndex(mustTable(t, p("A", "1", "Bears")), 0, DefaultPriming())
		So(err, ShouldNotBeNil)
	})
}

func TestPriming(t *testing.T) {
	Convey("Given the default priming rules", t, func() {
		table := mustTable(t,
			p("Journeyman", "100", "Bears", "Lions", "Packers"),
			p("Almost", "99.5", "Bears", "Lions", "Packers"),
			p("Renamed", "120", "Redskins", "Commanders", "Bears"),
			p("Legend", "150", "Bears"),
			p("Otto Graham", "57", "Browns"),
			p("Nobody", "10", "Bears", "Lions", "Packers", "Vikings"),
		)
		ix, err := NewIndex(table, 3, DefaultPriming())
		So(err, ShouldBeNil)

		Convey("Then three franchises and a high stat prime a player", func() {
			So(ix.IsPrimed("Journeyman"), ShouldBeTrue)
			So(ix.IsPrimed("Almost"), ShouldBeFalse)
			So(ix.IsPrimed("Nobody"), ShouldBeFalse)
		})

		Convey("Then renamed franchises count once", func() {
			So(ix.IsPrimed("Renamed"), ShouldBeFalse)
		})

		Convey("Then the stat threshold and the allow-list prime on their own", func() {
			So(ix.IsPrimed("Legend"), ShouldBeTrue)
			So(ix.IsPrimed("Otto Graham"), ShouldBeTrue)
		})

		Convey("Then unknown names are not primed", func() {
			So(ix.IsPrimed("Ghost"), ShouldBeFalse)
		})
	})

	Convey("Given custom priming rules", t, func() {
		table := mustTable(t, p("Legend", "150", "Bears"), p("Otto Graham", "57", "Browns"))
		ix, err := NewIndex(table, 3, Priming{Stat: decimal.NewFromInt(200)})
		So(err, ShouldBeNil)

		So(ix.IsPrimed("Legend"), ShouldBeFalse)
		So(ix.IsPrimed("Otto Graham"), ShouldBeFalse)
	})
}
