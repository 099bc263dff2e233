// Package instrument resolves where a sequencing instrument signals that it
// has finished writing a runfolder.
//
// The runfolder lifecycle only depends on the Instrument interface; Detect
// provides the default resolver for Illumina control software, and Func and
// Fixed cover configuration overrides and test fakes.
package instrument
