// Package featuremodel is a public shim re-exporting the core engine for
// tools that live outside this module's internal tree: the XML/SXFM
// ingestion collaborators, a GUI, or a sampling tool, none of which can
// import internal/* directly.
//
// The shim is deliberately thin: it adds no logic of its own, only type
// aliases and re-exported constructors.
package featuremodel

import (
	"github.com/se-sic/vara-feature-go/internal/configuration"
	"github.com/se-sic/vara-feature-go/internal/constraint"
	"github.com/se-sic/vara-feature-go/internal/feature"
	"github.com/se-sic/vara-feature-go/internal/fmerr"
	"github.com/se-sic/vara-feature-go/internal/modelbuilder"
	"github.com/se-sic/vara-feature-go/internal/solver"
	"github.com/se-sic/vara-feature-go/internal/transaction"
)

// Model is the feature-model graph: arena, tree, and the three constraint
// lists.
type Model = feature.FeatureModel

// Node, Kind, and the relationship/numeric-domain vocabulary needed to
// build a Model by hand rather than through the Builder.
type (
	Node             = feature.Node
	Kind             = feature.Kind
	RelationshipKind = feature.RelationshipKind
	NumericDomain    = feature.NumericDomain
	Category         = feature.Category
	Location         = feature.Location
	RevisionRange    = feature.RevisionRange
	SourceRange      = feature.FeatureSourceRange
	ExprKind         = feature.ExprKind
	ReqKind          = feature.ReqKind
)

const (
	KindRoot     = feature.KindRoot
	KindBinary   = feature.KindBinary
	KindNumeric  = feature.KindNumeric
	Alternative  = feature.Alternative
	Or           = feature.Or
	Necessary    = feature.Necessary
	Inessential  = feature.Inessential
	Pos          = feature.Pos
	Neg          = feature.Neg
	ReqAll       = feature.ReqAll
	ReqNone      = feature.ReqNone
)

var (
	NewModel         = feature.New
	NewRootNode      = feature.NewRoot
	NewBinaryNode    = feature.NewBinary
	NewNumericList   = feature.NewNumericList
	NewNumericRange  = feature.NewNumericRange
	NewRelationship  = feature.NewRelationship
)

// Builder is the only sanctioned path from an external description to a
// Model.
type Builder = modelbuilder.FeatureModelBuilder

var NewBuilder = modelbuilder.New

// ConstraintClass picks which of a Model's three constraint lists a
// Builder-queued constraint installs into.
type ConstraintClass = transaction.ConstraintClass

const (
	BooleanConstraint    = transaction.Boolean
	NonBooleanConstraint = transaction.NonBoolean
	MixedConstraint      = transaction.Mixed
)

// Constraint is the parsed/built expression AST type, and StepFunction
// the numeric-domain step vocabulary.
type (
	Constraint   = constraint.Expr
	StepFunction = constraint.StepFunction
	StepOrder    = constraint.Order
)

const (
	StepVarFirst  = constraint.VarFirst
	StepVarSecond = constraint.VarSecond
)

var (
	ParseConstraint  = constraint.Parse
	NewConstraintAST = constraint.NewBuilder
	NewAddStep       = constraint.NewAddStep
	NewMulStep       = constraint.NewMulStep
	NewPowStep       = constraint.NewPowStep
)

// Configuration is the flat, string-valued assignment a solver's
// CurrentModel snapshots and an enumerator yields.
type Configuration = configuration.Configuration

var (
	NewConfiguration   = configuration.New
	ParseConfiguration = configuration.Parse
)

// Solver, Translate, and Enumerator make up the SMT encoding/enumeration
// layer; NewNaiveSolver is the only backend this module ships.
type (
	Solver    = solver.Solver
	Enumerator = solver.Enumerator
)

var (
	NewNaiveSolver = solver.NewNaiveSolver
	Translate      = solver.Translate
	NewEnumerator  = solver.NewEnumerator
)

// ErrorKind is the closed error taxonomy every fallible core operation reports
// through.
type ErrorKind = fmerr.Kind

const (
	ErrAborted                    = fmerr.Aborted
	ErrAlreadyPresent             = fmerr.AlreadyPresent
	ErrInconsistent               = fmerr.Inconsistent
	ErrMissingFeature             = fmerr.MissingFeature
	ErrMissingParent              = fmerr.MissingParent
	ErrMissingModel               = fmerr.MissingModel
	ErrGeneric                    = fmerr.Generic
	ErrNotImplemented             = fmerr.NotImplemented
	ErrNotSupported               = fmerr.NotSupported
	ErrUnsat                      = fmerr.Unsat
	ErrNotAllConstraintsProcessed = fmerr.NotAllConstraintsProcessed
	ErrParentNotPresent           = fmerr.ParentNotPresent
)

var KindOf = fmerr.KindOf
