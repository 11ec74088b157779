// SPDX-FileCopyrightText: 2014-2020 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

// functionCode describes the kind of statement a reply was produced for,
// as reported by the server in the reply segment header.
type functionCode int16

const (
	fcNil                functionCode = 0
	fcDDL                functionCode = 1
	fcInsert             functionCode = 2
	fcUpdate             functionCode = 3
	fcDelete             functionCode = 4
	fcSelect             functionCode = 5
	fcSelectForUpdate    functionCode = 6
	fcExplain            functionCode = 7
	fcDBProcedureCall    functionCode = 8
	fcDBProcedureCallWithResult functionCode = 9
	fcFetch              functionCode = 10
	fcCommit             functionCode = 11
	fcRollback           functionCode = 12
	fcSavepoint          functionCode = 13
	fcConnect            functionCode = 14
	fcWriteLob           functionCode = 15
	fcReadLob            functionCode = 16
	fcPing               functionCode = 17
	fcDisconnect         functionCode = 18
	fcCloseCursor        functionCode = 19
	fcFindLob            functionCode = 20
	fcAbapstream         functionCode = 21
	fcXAStart            functionCode = 22
	fcXAJoin             functionCode = 23
	fcXAControl          functionCode = 24
	fcXAPrepare          functionCode = 25
	fcXARecover          functionCode = 26
)

var functionCodeText = map[functionCode]string{
	fcNil:                       "nil",
	fcDDL:                       "ddl",
	fcInsert:                    "insert",
	fcUpdate:                    "update",
	fcDelete:                    "delete",
	fcSelect:                    "select",
	fcSelectForUpdate:           "selectForUpdate",
	fcExplain:                   "explain",
	fcDBProcedureCall:           "dbProcedureCall",
	fcDBProcedureCallWithResult: "dbProcedureCallWithResult",
	fcFetch:                     "fetch",
	fcCommit:                    "commit",
	fcRollback:                  "rollback",
	fcSavepoint:                 "savepoint",
	fcConnect:                   "connect",
	fcWriteLob:                  "writeLob",
	fcReadLob:                   "readLob",
	fcPing:                      "ping",
	fcDisconnect:                "disconnect",
	fcCloseCursor:               "closeCursor",
	fcFindLob:                   "findLob",
	fcAbapstream:                "abapstream",
	fcXAStart:                   "xaStart",
	fcXAJoin:                    "xaJoin",
	fcXAControl:                 "xaControl",
	fcXAPrepare:                 "xaPrepare",
	fcXARecover:                 "xaRecover",
}

func (fc functionCode) String() string {
	if t, ok := functionCodeText[fc]; ok {
		return t
	}
	return "unknown"
}

// isProcedureCall reports whether fc names a stored procedure call, the
// only statement kind that can return table-valued OUT parameters.
func (fc functionCode) isProcedureCall() bool {
	return fc == fcDBProcedureCall || fc == fcDBProcedureCallWithResult
}

func (fc functionCode) isSelect() bool {
	return fc == fcSelect || fc == fcSelectForUpdate
}
