// SPDX-FileCopyrightText: 2014-2020 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

// connectOption identifies an entry of the CONNECT_OPTIONS part exchanged
// during the CONNECT message of the authentication handshake.
type connectOption int8

const (
	coConnectionID                    connectOption = 1
	coCompleteArrayExecution          connectOption = 2
	coClientLocale                    connectOption = 3
	coSupportsLargeBulkOperations     connectOption = 4
	coDistributionProtocolVersion     connectOption = 5
	coEngineDataFormatVersion         connectOption = 6
	coClientDistributionMode          connectOption = 7
	coSelectForUpdateSupported        connectOption = 10
	coClientDistributionModeBehaviour connectOption = 11
	coDataFormatVersion2              connectOption = 12
	coItabParameter                   connectOption = 13
	coDescribeTableOutputParameter    connectOption = 14
	coColumnarResultSet               connectOption = 15
	coRowSlotImageParameter           connectOption = 17
	coResultsetHoldabilitySupport     connectOption = 18
	coScrollableResultSetSupport      connectOption = 19
	coClientInfoNullValueSupported    connectOption = 20
	coAssociatedConnectionID          connectOption = 21
	coNonTransactionalPrepare         connectOption = 22
	coFdaEnabled                      connectOption = 23
	coOsuserSupport                   connectOption = 24
	coClientApplicationName           connectOption = 29
	coImplicitLobStreaming            connectOption = 32
	coSplitBatchCommands              connectOption = 35
)

var connectOptionText = map[connectOption]string{
	coConnectionID:                    "connectionID",
	coCompleteArrayExecution:          "completeArrayExecution",
	coClientLocale:                    "clientLocale",
	coSupportsLargeBulkOperations:     "supportsLargeBulkOperations",
	coDistributionProtocolVersion:     "distributionProtocolVersion",
	coEngineDataFormatVersion:         "engineDataFormatVersion",
	coClientDistributionMode:          "clientDistributionMode",
	coSelectForUpdateSupported:        "selectForUpdateSupported",
	coClientDistributionModeBehaviour: "clientDistributionModeBehaviour",
	coDataFormatVersion2:              "dataFormatVersion2",
	coItabParameter:                   "itabParameter",
	coDescribeTableOutputParameter:    "describeTableOutputParameter",
	coColumnarResultSet:               "columnarResultSet",
	coRowSlotImageParameter:           "rowSlotImageParameter",
	coResultsetHoldabilitySupport:     "resultsetHoldabilitySupport",
	coScrollableResultSetSupport:      "scrollableResultSetSupport",
	coClientInfoNullValueSupported:    "clientInfoNullValueSupported",
	coAssociatedConnectionID:          "associatedConnectionID",
	coNonTransactionalPrepare:         "nonTransactionalPrepare",
	coFdaEnabled:                      "fdaEnabled",
	coOsuserSupport:                   "osuserSupport",
	coClientApplicationName:           "clientApplicationName",
	coImplicitLobStreaming:            "implicitLobStreaming",
	coSplitBatchCommands:              "splitBatchCommands",
}

func (o connectOption) String() string {
	if t, ok := connectOptionText[o]; ok {
		return t
	}
	return "unknown"
}

// supported data format versions, oldest to newest. Untyped so the same
// constant can compare against both optIntType (connect options) and plain
// int (Decoder.Dfv, set from the negotiated value after CONNECT).
const (
	dfvLevel1 = 1
	dfvLevel4 = 4
	dfvLevel6 = 6
	dfvLevel8 = 8
)

// checkDfv clamps a configured data format version to the range this engine
// can speak; anything unrecognized falls back to the widest supported level.
func checkDfv(dfv optIntType) optIntType {
	switch dfv {
	case dfvLevel1, dfvLevel4, dfvLevel6, dfvLevel8:
		return dfv
	default:
		return dfvLevel8
	}
}
