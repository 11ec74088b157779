// SPDX-FileCopyrightText: 2014-2020 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

// partKind identifies the contents of a part's payload.
type partKind int8

const (
	pkNil                  partKind = 0
	pkCommand              partKind = 3
	pkResultset            partKind = 5
	pkError                partKind = 6
	pkStatementID          partKind = 10
	pkTransactionID        partKind = 11
	pkRowsAffected         partKind = 12
	pkResultsetID          partKind = 13
	pkTopologyInformation  partKind = 15
	pkTableLocation        partKind = 16
	pkReadLobRequest       partKind = 17
	pkReadLobReply         partKind = 18
	pkCommandInfo          partKind = 27
	pkWriteLobRequest      partKind = 28
	pkClientContext        partKind = 29
	pkWriteLobReply        partKind = 30
	pkParameters           partKind = 32
	pkAuthentication       partKind = 33
	pkSessionContext       partKind = 34
	pkClientID             partKind = 35
	pkProfile              partKind = 38
	pkStatementContext     partKind = 39
	pkPartitionInformation partKind = 40
	pkOutputParameters     partKind = 41
	pkConnectOptions       partKind = 42
	pkCommitOptions        partKind = 43
	pkFetchOptions         partKind = 44
	pkFetchSize            partKind = 45
	pkParameterMetadata    partKind = 47
	pkResultMetadata       partKind = 48
	pkFindLobRequest       partKind = 49
	pkFindLobReply         partKind = 50
	pkItabShm              partKind = 51
	pkItabChunkMetadata    partKind = 53
	pkItabMetadata         partKind = 55
	pkItabResultChunk      partKind = 56
	pkClientInfo           partKind = 57
	pkStreamData           partKind = 58
	pkOstreamResult        partKind = 59
	pkFdaRequestMetadata   partKind = 60
	pkFdaReplyMetadata     partKind = 61
	pkTransactionFlags     partKind = 64
)

var partKindText = map[partKind]string{
	pkNil:                  "nil",
	pkCommand:              "command",
	pkResultset:            "resultset",
	pkError:                "error",
	pkStatementID:          "statementID",
	pkTransactionID:        "transactionID",
	pkRowsAffected:         "rowsAffected",
	pkResultsetID:          "resultsetID",
	pkTopologyInformation:  "topologyInformation",
	pkTableLocation:        "tableLocation",
	pkReadLobRequest:       "readLobRequest",
	pkReadLobReply:         "readLobReply",
	pkCommandInfo:          "commandInfo",
	pkWriteLobRequest:      "writeLobRequest",
	pkClientContext:        "clientContext",
	pkWriteLobReply:        "writeLobReply",
	pkParameters:           "parameters",
	pkAuthentication:       "authentication",
	pkSessionContext:       "sessionContext",
	pkClientID:             "clientID",
	pkProfile:              "profile",
	pkStatementContext:     "statementContext",
	pkPartitionInformation: "partitionInformation",
	pkOutputParameters:     "outputParameters",
	pkConnectOptions:       "connectOptions",
	pkCommitOptions:        "commitOptions",
	pkFetchOptions:         "fetchOptions",
	pkFetchSize:            "fetchSize",
	pkParameterMetadata:    "parameterMetadata",
	pkResultMetadata:       "resultMetadata",
	pkFindLobRequest:       "findLobRequest",
	pkFindLobReply:         "findLobReply",
	pkItabShm:              "itabShm",
	pkItabChunkMetadata:    "itabChunkMetadata",
	pkItabMetadata:         "itabMetadata",
	pkItabResultChunk:      "itabResultChunk",
	pkClientInfo:           "clientInfo",
	pkStreamData:           "streamData",
	pkOstreamResult:        "ostreamResult",
	pkFdaRequestMetadata:   "fdaRequestMetadata",
	pkFdaReplyMetadata:     "fdaReplyMetadata",
	pkTransactionFlags:     "transactionFlags",
}

func (k partKind) String() string {
	if t, ok := partKindText[k]; ok {
		return t
	}
	return "unknown"
}
