package model_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smartystreets/goconvey/convey"

	"github.com/sethseligman/statstack-v1-archive/internal/domain/calculator"
	model "github.com/sethseligman/statstack-v1-archive/internal/domain/model"
)

func TestJob(t *testing.T) {
	convey.Convey("Given a new job", t, func() {
		before := time.Now()
		job := model.NewJob("qb-wins", []string{"Bears"})

		convey.Convey("Then it carries its request and a fresh id", func() {
			convey.So(job.ID, convey.ShouldNotEqual, uuid.Nil)
			convey.So(job.Challenge, convey.ShouldEqual, "qb-wins")
			convey.So(job.Teams, convey.ShouldResemble, []string{"Bears"})
			convey.So(job.EnqueuedAt, convey.ShouldHappenOnOrAfter, before)
			convey.So(cap(job.Reply), convey.ShouldEqual, 1)
		})

		convey.Convey("When responding twice", func() {
			first := job.Respond(calculator.Fallback(nil))
			second := job.Respond(calculator.Fallback(nil))

			convey.Convey("Then only the first result is delivered", func() {
				convey.So(first, convey.ShouldBeTrue)
				convey.So(second, convey.ShouldBeFalse)
				res := <-job.Reply
				convey.So(res.ResultType, convey.ShouldEqual, calculator.ResultGreedyTimeout)
			})
		})

		convey.Convey("Then two jobs never share an id", func() {
			convey.So(model.NewJob("qb-wins", nil).ID, convey.ShouldNotEqual, job.ID)
		})
	})
}
