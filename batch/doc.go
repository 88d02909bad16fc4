// SPDX-License-Identifier: EPL-2.0

// Package batch degrades a list of files under one condition.
//
// Recipes are sampled on a single goroutine in list order and each job gets
// its own fork of the stream, so the outputs do not depend on the number of
// workers. The manifest lists every produced or already present output in
// input order and is flushed after each line, which makes an interrupted run
// resumable: outputs larger than two bytes are skipped on the next run.
package batch
