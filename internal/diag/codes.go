package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo               Code = 1000
	LexUnknownChar        Code = 1001
	LexUnterminatedString Code = 1002
	LexBadNumber          Code = 1003

	// Синтаксические
	SynInfo              Code = 2000
	SynUnexpectedToken   Code = 2001
	SynExpectIdentifier  Code = 2002
	SynExpectType        Code = 2003
	SynUnclosedDelimiter Code = 2004
	SynExpectExpression  Code = 2005
	SynDuplicateMember   Code = 2006

	// Типовые
	TypInfo              Code = 3000
	TypUnknownName       Code = 3001
	TypMismatch          Code = 3002
	TypNotAField         Code = 3003
	TypNotAFunction      Code = 3004
	TypNotAPredicate     Code = 3005
	TypBadArgCount       Code = 3006
	TypNonConcreteUse    Code = 3007
	TypResultOutsidePost Code = 3008

	// Верификационные: накапливаются на функции, не прерывают прогон
	VerInfo               Code = 4000
	VerUntranslatablePre  Code = 4001
	VerUntranslatablePost Code = 4002
	VerUntranslatableBody Code = 4003
	VerFailedObligation   Code = 4004

	// I/O и конфигурация
	IOLoadFileError    Code = 7001
	CfgBadManifest     Code = 7002
	CfgMissingPreamble Code = 7003
)

func (c Code) String() string {
	return fmt.Sprintf("SIL%04d", uint16(c))
}
