package report_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/chart"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/competency"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/dataset"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/rater"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/report"
	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBuild(t *testing.T) {
	Convey("Given a subject scored in four categories", t, func() {
		header := []string{"Evaluado", "Relación", "Trabajo en equipo", "Comunica con claridad", "Liderazgo", "Toma de decisiones"}
		rows := [][]string{
			{"Ana", "Jefe", "5", "2", "4", "3"},
			{"Ana", "Autoevaluación", "5", "1", "5", "3"},
			{"Ana", "Par", "4", "", "4", "3"},
		}
		e := scoring.NewEngine(dataset.Build(context.Background(), dataset.NewTable("t", header, rows)))
		res, err := e.Score(context.Background(), "Ana", scoring.Weights{Self: 1, Manager: 1, Peers: 1})
		So(err, ShouldBeNil)

		at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		r := report.Build(res, nil, report.WithGeneratedAt(at))

		Convey("Strengths and weaknesses are the top three each way", func() {
			So(len(r.Strengths), ShouldEqual, 3)
			So(r.Strengths[0].Category, ShouldEqual, competency.Teamwork)
			So(r.Strengths[1].Category, ShouldEqual, competency.Leadership)
			So(len(r.Weaknesses), ShouldEqual, 3)
			So(r.Weaknesses[0].Category, ShouldEqual, competency.Communication)
			So(r.Weaknesses[1].Category, ShouldEqual, competency.DecisionMaking)
		})

		Convey("Rater counts follow group order", func() {
			So(r.Raters, ShouldResemble, []report.RaterCount{
				{Group: rater.Self, Color: rater.Self.Color(), Count: 1},
				{Group: rater.Manager, Color: rater.Manager.Color(), Count: 1},
				{Group: rater.Peers, Color: rater.Peers.Color(), Count: 1},
			})
		})

		Convey("Group rows align with the category list", func() {
			So(len(r.Categories), ShouldEqual, 4)
			So(len(r.Groups), ShouldEqual, 3)
			peers := r.Groups[2]
			So(peers.Group, ShouldEqual, rater.Peers)
			So(peers.Scores[1], ShouldBeNil)
			So(*peers.Scores[0], ShouldEqual, 4)
		})

		Convey("Achievement is a share of 5.0", func() {
			So(r.Achievement[0].Percent, ShouldAlmostEqual, r.Achievement[0].Score/5*100, 1e-9)
		})

		Convey("Charts and the timestamp are attached", func() {
			So(r.GeneratedAt, ShouldEqual, at)
			So(len(r.Charts), ShouldEqual, 4+4)
		})
	})

	Convey("Given fewer than three categories", t, func() {
		cs := []scoring.CategoryScore{{Category: competency.Planning, Score: 2}}

		Convey("Highlights list what exists", func() {
			So(len(report.Strengths(cs, 3)), ShouldEqual, 1)
			So(len(report.Weaknesses(nil, 3)), ShouldEqual, 0)
		})
	})
}

func TestGenerate(t *testing.T) {
	Convey("Given an engine over two subjects", t, func() {
		header := []string{"Evaluado", "Relación", "Liderazgo"}
		rows := [][]string{{"Ana", "Jefe", "4"}, {"Bea", "Jefe", "2"}}
		e := scoring.NewEngine(dataset.Build(context.Background(), dataset.NewTable("t", header, rows)))
		// Only managers rated, so only the manager weight counts.
		w := scoring.Weights{Manager: 1}

		Convey("The report places the subject among the population", func() {
			r, err := report.Generate(context.Background(), e, "Ana", w)
			So(err, ShouldBeNil)
			So(r.Subject, ShouldEqual, "Ana")
			So(r.Overall, ShouldAlmostEqual, 4.0, 1e-9)
			So(r.Charts[2].Kind, ShouldEqual, chart.KindScatter)
			So(len(r.Charts[2].Points), ShouldEqual, 2)
		})

		Convey("Default weights score absent groups as zero", func() {
			r, err := report.Generate(context.Background(), e, "Ana", scoring.DefaultWeights())
			So(err, ShouldBeNil)
			So(r.Overall, ShouldAlmostEqual, 4*0.18, 1e-9)
		})

		Convey("Unknown subjects surface the scoring error", func() {
			_, err := report.Generate(context.Background(), e, "Zoe", w)
			So(errors.Is(err, scoring.ErrNoData), ShouldBeTrue)
		})
	})
}
