// SPDX-FileCopyrightText: 2014-2021 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import "fmt"

//go:generate stringer -type=statementContextType

type statementContextType int8

const (
	scStatementSequenceInfo statementContextType = 1
	scServerExecutionTime   statementContextType = 2
)

var statementContextTypeText = map[statementContextType]string{
	scStatementSequenceInfo: "scStatementSequenceInfo",
	scServerExecutionTime:   "scServerExecutionTime",
}

func (k statementContextType) String() string {
	if s, ok := statementContextTypeText[k]; ok {
		return s
	}
	return fmt.Sprintf("statementContextType(%d)", k)
}
