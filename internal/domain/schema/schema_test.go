package schema_test

import (
	"errors"
	"testing"

	"github.com/Waldoz-X/PrjEvaluacion360/internal/domain/schema"
	. "github.com/smartystreets/goconvey/convey"
)

func TestResolve(t *testing.T) {
	Convey("Given the headers of a form export", t, func() {
		headers := []string{
			"Marca temporal",
			"Nombre Completo:",
			"Nombre del colaborador evaluado",
			"¿Cuál es tu relación con el evaluado?",
			"Trabajo en equipo",
		}

		Convey("Exact synonyms resolve every role", func() {
			s := schema.Resolve(headers)
			So(s.Timestamp, ShouldResemble, schema.Column{Index: 0, Name: "Marca temporal"})
			So(s.Subject, ShouldResemble, schema.Column{Index: 2, Name: "Nombre del colaborador evaluado"})
			So(s.Relationship, ShouldResemble, schema.Column{Index: 3, Name: "¿Cuál es tu relación con el evaluado?"})
			So(s.Require(schema.RoleSubject, schema.RoleRelationship, schema.RoleTimestamp), ShouldBeNil)
			So(s.Indices(), ShouldResemble, []int{0, 2, 3})
		})
	})

	Convey("Given headers that need the substring heuristics", t, func() {
		headers := []string{
			"Fecha de respuesta",
			"Relación que tienes con la persona evaluada",
			"Persona evaluado (nombre)",
			"Comunicación clara",
		}
		s := schema.Resolve(headers)

		Convey("Each role takes the first unclaimed header containing its keywords", func() {
			So(s.Timestamp.Index, ShouldEqual, 0)
			So(s.Relationship.Index, ShouldEqual, 1)
			So(s.Subject.Index, ShouldEqual, 2)
		})
	})

	Convey("Given a relationship question that mentions the evaluated person", t, func() {
		headers := []string{"Tu relación con el evaluado actual", "Evaluado principal"}
		s := schema.Resolve(headers)

		Convey("The relationship column is not mistaken for the subject", func() {
			So(s.Relationship.Index, ShouldEqual, 0)
			So(s.Subject.Index, ShouldEqual, 1)
		})
	})

	Convey("Given headers without metadata", t, func() {
		s := schema.Resolve([]string{"Pregunta 1", "Pregunta 2"})

		Convey("Roles stay unresolved and Require reports them", func() {
			So(s.Subject.Resolved(), ShouldBeFalse)
			So(s.Timestamp.Index, ShouldEqual, -1)
			So(s.Indices(), ShouldBeEmpty)

			err := s.Require(schema.RoleSubject, schema.RoleRelationship)
			So(errors.Is(err, schema.ErrUnresolvedSchema), ShouldBeTrue)

			var se *schema.SchemaError
			So(errors.As(err, &se), ShouldBeTrue)
			So(se.Missing, ShouldResemble, []schema.Role{schema.RoleSubject, schema.RoleRelationship})
			So(err.Error(), ShouldContainSubstring, "subject, relationship")
		})

		Convey("Optional roles can be left out of Require", func() {
			s2 := schema.Resolve([]string{"Evaluado", "Relación"})
			So(s2.Require(schema.RoleSubject, schema.RoleRelationship), ShouldBeNil)
			So(s2.Require(schema.RoleTimestamp), ShouldNotBeNil)
		})
	})
}
