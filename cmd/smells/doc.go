// Package main provides the smells command, which runs the convolutional
// network grid search for code smell detection. Each combination of
// convolution layers, filters, kernel size, pooling window and epochs is
// trained with early stopping on tokenized samples and evaluated on a
// held-out set, one CSV row per combination. Subcommands retrain the best
// combination (final), measure trivial baselines (baseline) and print a
// ranked table of a result file (summary).
package main
