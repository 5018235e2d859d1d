// Package converter turns parsed PeTrack records into JPSvis rows and geometry.
//
// # Overview
//
// A conversion runs these steps over the whole file:
//   - stable sort of the records by frame
//   - removal of repeated (agent, frame) pairs
//   - rendering attributes (ellipse semi-axes, height) scaled to the working unit
//   - per-agent speed and heading from tracking.Estimate
//   - merge of the per-agent results back into frame order
//   - synthesis of the enclosing room from all positions
//
// # Usage
//
//	opts := converter.DefaultOptions()
//	opts.Unit = petrack.ResolveUnit(header, override, units.CM, warn)
//	opts.FPS = header.FPS
//
//	conv, err := converter.New(opts, logger)
//	if err != nil {
//	    return err
//	}
//	res, err := conv.Convert(records, warn)
//
// # Architecture
//
// The converter package is organized into:
//   - types.go: Options, RenderAttributes and Result
//   - errors.go: ConfigError
//   - converter.go: Converter construction and the conversion pipeline
//
// # Thread Safety
//
// A Converter holds only its validated options and may be shared. Convert
// never mutates the input records.
package converter
