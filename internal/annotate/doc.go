// Package annotate keeps a generated "Schema Information" comment block in
// sync inside a source file without disturbing anything else in it.
//
// # Overview
//
// The package is a pipeline of pure functions over whole-file text:
//
//  1. ExtractDirectives finds the magic comments at the top of the file
//     (frozen_string_literal, encoding, typed, shebang).
//  2. Locate finds the current annotation block, relative to the first
//     class or module declaration, and captures the blank lines around it.
//  3. Diff compares the columns listed in the current block with the
//     freshly rendered annotation.
//  4. Rewrite decides between no-op, insert, replace, move and remove and
//     produces the new text.
//
// # Annotation Format
//
//	# == Schema Information
//	#
//	# Table name: users
//	#
//	#  id     :bigint           not null, primary key
//	#  email  :varchar          not null
//	#
//
// Optional wrapper lines (PlacementConfig.WrapperOpen/WrapperClose) frame
// the block when configured.
//
// # Blank Lines
//
// Exactly one blank line separates the block from the content above it
// (leading directives included). A block placed before a declaration sits
// directly on top of the comments that document the declaration. Removing a
// block keeps the larger of the two blank runs that surrounded it, or none
// at the start or end of the file.
//
// # Usage
//
//	out, err := annotate.Rewrite(content, rendered, annotate.DefaultPlacementConfig())
//	if err != nil {
//	    return err // invalid configuration only
//	}
//	if out.Changed {
//	    // write out.Text back
//	}
//
// Nothing here performs I/O; callers may rewrite different files in parallel.
package annotate
