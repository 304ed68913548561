package script

// Statement is one directive of a script.
//
// The concrete types are *DefineAs, *On, *If, and *Call.
type Statement interface {
	Position() Pos
}

// DefineAs is "define foo as new com.example.Foo".
type DefineAs struct {
	Pos        Pos
	Identifier string
	ClassName  string

	// New is true for "as new".  A definition without "new"
	// declares a reference, which the engine ignores.
	New bool

	// Array is true for "as new Foo[]".
	Array bool
}

func (s *DefineAs) Position() Pos { return s.Pos }

// Param is one "a String named value" of an On's "with" clause.
type Param struct {
	Type  string
	Array bool
	Name  string
}

// On is "on eventName with ... endon".
type On struct {
	Pos        Pos
	Event      string
	Params     []Param
	Statements []Statement
}

func (s *On) Position() Pos { return s.Pos }

// If is an "if ... else if ... else ... endif" chain.
type If struct {
	Pos          Pos
	Alternatives []*Alternative
}

func (s *If) Position() Pos { return s.Pos }

// Alternative is one branch of an If.  The Test of an "else" is nil.
type Alternative struct {
	Pos        Pos
	Test       *Test
	Statements []Statement
}

type Operator string

const (
	OpIs     Operator = "IS"
	OpIsLike Operator = "IS_LIKE"
)

// Test is "left is [like] right".
type Test struct {
	Operator Operator
	Left     Expr
	Right    Expr
}

// Expr is a test operand: a Literal or a Ref.
type Expr interface{}

// Literal is a quoted string.
type Literal struct{ Value string }

// Ref is a bare identifier.
type Ref struct{ Name string }

// Call is "call method from holder using name as name, value as
// value".
type Call struct {
	Pos Pos

	// Accessor is the holder path followed by the method name,
	// so "call store from foo" gives ["foo", "store"].
	Accessor []string

	// Using maps argument names to expressions, in script order.
	Using []Argument
}

func (s *Call) Position() Pos { return s.Pos }

// Argument is "value as name".
type Argument struct {
	Value string
	Name  string
}
