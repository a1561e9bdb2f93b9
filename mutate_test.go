package variation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutatorPlanCanonical(t *testing.T) {
	m := NewMutator(DefaultPolicy())
	plan := m.Plan(1, "search-form")
	assert.True(t, plan.Identity())
	assert.Equal(t, ContainerFullSize, plan.Kind)

	disabled := NewMutator(DisabledPolicy())
	assert.True(t, disabled.Plan(7, "cta").Identity())
}

func TestMutatorPlan(t *testing.T) {
	m := NewMutator(DefaultPolicy())

	plan := m.Plan(7, "cta")
	assert.Equal(t, 1, plan.Wrapper)
	assert.Equal(t, 2, plan.Decoy)
	assert.Equal(t, ContainerInline, plan.Kind)
	position, ok := plan.DecoyPosition()
	assert.True(t, ok)
	assert.Equal(t, SiblingAfter, position)

	plan = m.Plan(7, "search-form")
	assert.False(t, plan.Wrapped())
	position, ok = plan.DecoyPosition()
	assert.True(t, ok)
	assert.Equal(t, SiblingBefore, position)

	assert.True(t, m.Plan(42, "title").Identity())
}

func TestContainerKindFor(t *testing.T) {
	assert.Equal(t, ContainerFullSize, containerKindFor("Login-Form"))
	assert.Equal(t, ContainerFullSize, containerKindFor("site-search"))
	assert.Equal(t, ContainerBlock, containerKindFor("hotel-card"))
	assert.Equal(t, ContainerInline, containerKindFor("cta"))
	assert.Equal(t, "full-size", ContainerFullSize.String())
	assert.Equal(t, "block", ContainerBlock.String())
	assert.Equal(t, "inline", ContainerInline.String())
}

func TestMutateElementCanonicalIsIdentity(t *testing.T) {
	m := NewMutator(DefaultPolicy())
	content := &Element{Tag: "button", Text: "Book"}

	out := Mutate[*Element](m, ElementDecorator{}, 1, "cta", content)
	assert.Same(t, content, out)
	assert.Equal(t, `<button>Book</button>`, out.Render())
}

func TestMutateElementWrapAndDecoy(t *testing.T) {
	m := NewMutator(DefaultPolicy())
	content := &Element{Tag: "button", Text: "Book"}

	out := Mutate[*Element](m, ElementDecorator{}, 7, "cta", content)
	require.True(t, out.IsFragment())
	require.Len(t, out.Children, 2)

	wrapper := out.Children[0]
	assert.Equal(t, "span", wrapper.Tag)
	assert.Equal(t, "wrap-cta-8848", wrapper.Attrs["id"])
	assert.Equal(t, "display:contents", wrapper.Attrs["style"])
	assert.Same(t, content, wrapper.Children[0])

	decoy := out.Children[1]
	assert.Equal(t, "true", decoy.Attrs["aria-hidden"])
	assert.Equal(t, "decoy-cta-8848", decoy.Attrs["id"])
	assert.Empty(t, decoy.Text)
	assert.Empty(t, decoy.Children)

	assert.Equal(t,
		`<span data-variant-wrapper="cta" id="wrap-cta-8848" style="display:contents"><button>Book</button></span>`+
			`<span aria-hidden="true" data-variant-decoy="cta" id="decoy-cta-8848" style="`+decoyStyle+`"></span>`,
		out.Render())
}

func TestMutateElementFullSizeWrapper(t *testing.T) {
	m := NewMutator(DefaultPolicy())
	out := Mutate[*Element](m, ElementDecorator{}, 2, "search-form", &Element{Tag: "form"})
	assert.Equal(t, "div", out.Tag)
	assert.Equal(t, wrapperStyles[ContainerFullSize], out.Attrs["style"])
}

type recordingDecorator struct {
	calls []string
}

func (d *recordingDecorator) Wrap(content string, kind ContainerKind, marker Marker) string {
	d.calls = append(d.calls, "wrap:"+kind.String())
	return "[" + content + "]"
}

func (d *recordingDecorator) InsertDecoy(content string, position SiblingPosition, marker Marker) string {
	d.calls = append(d.calls, "decoy:"+marker.ID)
	if position == SiblingBefore {
		return "_" + content
	}
	return content + "_"
}

func TestApplyWithCustomDecorator(t *testing.T) {
	decorator := &recordingDecorator{}
	m := NewMutator(DefaultPolicy())

	out := Mutate[string](m, decorator, 7, "login-form", "x")
	assert.Equal(t, "_[x]", out)
	assert.Equal(t, []string{"wrap:full-size", "decoy:decoy-login-form-3166"}, decorator.calls)

	assert.Equal(t, "x", Apply[string](Mutation{Wrapper: 1}, nil, "x"))
}

func TestElementRenderEscapes(t *testing.T) {
	el := &Element{Tag: "p", Attrs: map[string]string{"title": `a"b`}, Text: "<b>&"}
	assert.Equal(t, `<p title="a&#34;b">&lt;b&gt;&amp;</p>`, el.Render())
	assert.Equal(t, "", (*Element)(nil).Render())
}
