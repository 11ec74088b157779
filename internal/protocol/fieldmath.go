// SPDX-FileCopyrightText: 2014-2020 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import "time"

// null-value sentinels: these fixed-size types signal NULL with a specific
// bit pattern instead of a separate indicator byte.
const (
	realNullValue       uint32 = ^uint32(0)
	doubleNullValue     uint64 = ^uint64(0)
	longdateNullValue   int64  = 3155380704000000001
	seconddateNullValue int64  = 315538070401
	daydateNullValue    int32  = 3652062
	secondtimeNullValue int32  = 86401
)

// string / binary length indicators
const (
	bytesLenIndNullValue byte = 255
	bytesLenIndSmall     byte = 245
	bytesLenIndMedium    byte = 246
	bytesLenIndBig       byte = 247
)

var zeroTime = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)

// nanosecond: HDB - 7 digits precision (not 9 digits)
func convertTimeToLongdate(t time.Time) int64 {
	t = t.UTC()
	return (((((((int64(convertTimeToDayDate(t))-1)*24)+int64(t.Hour()))*60)+int64(t.Minute()))*60)+int64(t.Second()))*10000000 + int64(t.Nanosecond()/100) + 1
}

func convertLongdateToTime(longdate int64) time.Time {
	const dayfactor = 10000000 * 24 * 60 * 60
	longdate--
	d := (longdate % dayfactor) * 100
	t := convertDaydateToTime((longdate / dayfactor) + 1)
	return t.Add(time.Duration(d))
}

func convertTimeToSeconddate(t time.Time) int64 {
	t = t.UTC()
	return (((((int64(convertTimeToDayDate(t))-1)*24)+int64(t.Hour()))*60)+int64(t.Minute()))*60 + int64(t.Second()) + 1
}

func convertSeconddateToTime(seconddate int64) time.Time {
	const dayfactor = 24 * 60 * 60
	seconddate--
	d := (seconddate % dayfactor) * 1000000000
	t := convertDaydateToTime((seconddate / dayfactor) + 1)
	return t.Add(time.Duration(d))
}

const julianHdb = 1721423 // 1 January 0001 00:00:00 (1721424) - 1

func convertTimeToDayDate(t time.Time) int64 {
	return int64(timeToJulianDay(t) - julianHdb)
}

func convertDaydateToTime(daydate int64) time.Time {
	return julianDayToTime(int(daydate) + julianHdb)
}

func convertTimeToSecondtime(t time.Time) int {
	t = t.UTC()
	return (t.Hour()*60+t.Minute())*60 + t.Second() + 1
}

func convertSecondtimeToTime(secondtime int) time.Time {
	return time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(int64(secondtime-1) * 1000000000))
}

// gregorianStart is the first day of the Gregorian calendar (1582-10-15,
// Julian day 2299161); earlier dates are Julian calendar dates.
var gregorianStart = time.Date(1582, time.October, 15, 0, 0, 0, 0, time.UTC)

const gregorianStartJD = 2299161

// timeToJulianDay and julianDayToTime convert between calendar dates and
// the Julian day number, truncated to whole days (time-of-day is handled by
// the caller's remaining duration arithmetic). Dates from 1582-10-15 on use
// the Gregorian calendar (Fliegel & Van Flandern), earlier dates the Julian
// calendar, so 0001-01-01 is Julian day 1721424.
func timeToJulianDay(t time.Time) int {
	t = t.UTC()
	y, m, d := t.Date()
	a := (14 - int(m)) / 12
	y2 := y + 4800 - a
	m2 := int(m) + 12*a - 3
	if t.Before(gregorianStart) {
		return d + (153*m2+2)/5 + 365*y2 + y2/4 - 32083
	}
	return d + (153*m2+2)/5 + 365*y2 + y2/4 - y2/100 + y2/400 - 32045
}

func julianDayToTime(jd int) time.Time {
	if jd < gregorianStartJD {
		c := jd + 32082
		dd := (4*c + 3) / 1461
		e := c - (1461*dd)/4
		m := (5*e + 2) / 153
		return time.Date(dd-4800+m/10, time.Month(m+3-12*(m/10)), e-(153*m+2)/5+1, 0, 0, 0, 0, time.UTC)
	}
	a := jd + 32044
	b := (4*a + 3) / 146097
	c := a - (146097*b)/4
	dd := (4*c + 3) / 1461
	e := c - (1461*dd)/4
	m := (5*e + 2) / 153
	day := e - (153*m+2)/5 + 1
	month := m + 3 - 12*(m/10)
	year := 100*b + dd - 4800 + m/10
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}
