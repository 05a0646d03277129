package docupdate

import (
	"errors"

	"github.com/hupe1980/docupdate/document"
	"github.com/hupe1980/docupdate/fieldpath"
	"github.com/hupe1980/docupdate/journal"
	"github.com/hupe1980/docupdate/schema"
	"github.com/hupe1980/docupdate/update"
	"github.com/hupe1980/docupdate/wire"
)

// Sentinel errors of the sub-packages, re-exported so callers can match
// them with errors.Is without further imports.
var (
	ErrConstruction        = update.ErrConstruction
	ErrTypeMismatch        = update.ErrTypeMismatch
	ErrUnsupportedVersion  = update.ErrUnsupportedVersion
	ErrNoPredicateCompiler = update.ErrNoPredicateCompiler
	ErrDocumentType        = update.ErrDocumentType

	ErrShortBuffer    = wire.ErrShortBuffer
	ErrMalformed      = wire.ErrMalformed
	ErrVarintOverflow = wire.ErrVarintOverflow

	ErrInvalidPath   = fieldpath.ErrInvalidPath
	ErrFieldNotFound = fieldpath.ErrFieldNotFound
	ErrNotCreatable  = fieldpath.ErrNotCreatable

	ErrUnknownDocumentType = schema.ErrUnknownDocumentType
	ErrNotSelfDescribing   = document.ErrNotSelfDescribing
	ErrCorruptSegment      = journal.ErrCorruptSegment
)

var (
	// ErrNoJournal is returned by Flush and Replay when no journal is
	// configured.
	ErrNoJournal = errors.New("no journal configured")

	// ErrDocumentNotFound is returned by a Replay lookup for documents
	// that no longer exist. Replay skips their entries.
	ErrDocumentNotFound = errors.New("document not found")
)
