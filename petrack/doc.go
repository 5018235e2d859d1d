/*
Package petrack reads trajectory exports written by the PeTrack motion
tracker.

A PeTrack text export starts with an optional block of comment lines followed
by whitespace-delimited data rows:

	# PeTrack project: /data/exp/run01.pet
	# raw trajectory file: /data/exp/run01_raw.trc
	# framerate: 25 fps
	# z: can be 3d position or height of person (alternating or not)
	# id frame x/cm y/cm z/cm
	1 0 120.52 -41.30 172.00
	1 1 121.87 -41.02 172.00

The package is data-source agnostic: it works on lines already read into
memory and does no file I/O.

# Header

HeaderParser scans the comment block with a three-state machine
(not started, in header, done). It records the frame rate from the
"framerate: 25 fps" line and the unit of the coordinate columns ("x/cm" or
a bracketed "[cm]"), keeps the raw comment lines, and reports where the data
rows start:

	p := petrack.NewHeaderParser()
	h, err := p.Parse(lines, warn)
	if err != nil {
	    // an unreadable frame rate is fatal
	}
	unit := petrack.ResolveUnit(h, override, units.CM, warn)
	records := petrack.ParseRecords(lines, h.DataStart, warn)

Missing headers, frame rates and units are not errors: defaults are used and
a warning is added to the aggregator.
*/
package petrack
