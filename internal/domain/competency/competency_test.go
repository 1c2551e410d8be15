package competency_test

import (
	"errors"
	"testing"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/competency"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCategoryOf(t *testing.T) {
	Convey("Given competency names", t, func() {
		Convey("The first matching category wins", func() {
			So(competency.CategoryOf("Trabajo en equipo"), ShouldEqual, competency.Teamwork)
			So(competency.CategoryOf("Se comunica con claridad"), ShouldEqual, competency.Communication)
			So(competency.CategoryOf("Toma de decisiones"), ShouldEqual, competency.DecisionMaking)
			So(competency.CategoryOf("Planeación de juntas"), ShouldEqual, competency.Planning)
			So(competency.CategoryOf("Propone ideas nuevas"), ShouldEqual, competency.Innovation)
			So(competency.CategoryOf("Cumple con los plazos"), ShouldEqual, competency.TimeManagement)
			// "manejo de" is a Leadership keyword, checked before Resource Management.
			So(competency.CategoryOf("Manejo de recursos"), ShouldEqual, competency.Leadership)
			So(competency.CategoryOf("Uso del material"), ShouldEqual, competency.ResourceManagement)
			So(competency.CategoryOf("Capacidad de negociación"), ShouldEqual, competency.Negotiation)
		})

		Convey("Unmatched names fall into the catch-all", func() {
			So(competency.CategoryOf("Puntualidad"), ShouldEqual, competency.QualityResults)
			So(competency.CategoryOf(""), ShouldEqual, competency.CatchAll)
		})

		Convey("Matching is case-insensitive but accent-sensitive", func() {
			So(competency.CategoryOf("TRABAJO EN EQUIPO"), ShouldEqual, competency.Teamwork)
			So(competency.CategoryOf("Planeacion"), ShouldEqual, competency.Planning) // "planea" still matches
			So(competency.CategoryOf("Negociacion"), ShouldEqual, competency.Negotiation)
		})
	})
}

func TestCategorize(t *testing.T) {
	Convey("Given a competency list", t, func() {
		comps := []string{"Calidad del trabajo", "Trabajo en equipo", "Colabora con otros", "Toma de decisiones"}
		groups := competency.Categorize(comps)

		Convey("Groups follow category order and keep source order inside", func() {
			So(len(groups), ShouldEqual, 3)
			So(groups[0].Category, ShouldEqual, competency.Teamwork)
			So(groups[0].Competencies, ShouldResemble, []string{"Trabajo en equipo", "Colabora con otros"})
			So(groups[1].Category, ShouldEqual, competency.DecisionMaking)
			So(groups[2].Category, ShouldEqual, competency.QualityResults)
		})

		Convey("Every competency lands in exactly one group", func() {
			total := 0
			for _, g := range groups {
				total += len(g.Competencies)
			}
			So(total, ShouldEqual, len(comps))
		})

		Convey("An empty list yields no groups", func() {
			So(competency.Categorize(nil), ShouldBeEmpty)
		})
	})
}

func TestCategoryNames(t *testing.T) {
	Convey("Categories have names and colors", t, func() {
		So(competency.Innovation.String(), ShouldEqual, "Innovation & Creativity")
		So(competency.Teamwork.Color(), ShouldEqual, "#667eea")

		c, ok := competency.ParseCategory("decision-making")
		So(ok, ShouldBeTrue)
		So(c, ShouldEqual, competency.DecisionMaking)

		var parsed competency.Category
		So(parsed.UnmarshalText([]byte("Planning")), ShouldBeNil)
		So(parsed, ShouldEqual, competency.Planning)
		So(errors.Is(parsed.UnmarshalText([]byte("Cooking")), competency.ErrUnknownCategory), ShouldBeTrue)
	})
}

func TestSelect(t *testing.T) {
	Convey("Given candidate columns", t, func() {
		cols := []competency.Candidate{
			{Index: 0, Name: "Marca temporal", Numeric: false},
			{Index: 1, Name: "Nombre del colaborador evaluado", Numeric: false},
			{Index: 2, Name: "Trabajo en equipo", Numeric: true},
			{Index: 3, Name: "Comentarios adicionales (opcional)", Numeric: true},
			{Index: 4, Name: "Opinión libre", Numeric: false},
			{Index: 5, Name: "Correo / contacto", Numeric: true},
			{Index: 6, Name: "Toma de decisiones", Numeric: true},
		}

		Convey("Metadata, free text and non-numeric columns are dropped", func() {
			ex, err := competency.NewExcluder()
			So(err, ShouldBeNil)

			got := competency.Select(cols, map[int]bool{0: true, 1: true}, ex)
			names := make([]string, len(got))
			for i, c := range got {
				names[i] = c.Name
			}
			So(names, ShouldResemble, []string{"Trabajo en equipo", "Correo / contacto", "Toma de decisiones"})
		})

		Convey("Glob patterns exclude further headers", func() {
			ex, err := competency.NewExcluder("correo*")
			So(err, ShouldBeNil)
			So(ex.Excluded("Correo / contacto"), ShouldBeTrue)
			So(ex.Excluded("Trabajo en equipo"), ShouldBeFalse)

			got := competency.Select(cols, nil, ex)
			So(len(got), ShouldEqual, 2)
		})

		Convey("Invalid patterns are rejected", func() {
			_, err := competency.NewExcluder("[abc")
			So(errors.Is(err, competency.ErrBadPattern), ShouldBeTrue)
		})

		Convey("A nil excluder excludes nothing", func() {
			var ex *competency.Excluder
			So(ex.Excluded("Comentarios adicionales (opcional)"), ShouldBeFalse)
		})
	})
}
