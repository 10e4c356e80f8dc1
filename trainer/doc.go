// Package trainer orchestrates the hyperparameter grid search of the code
// smell networks. It iterates the grid sequentially, evaluates every
// combination on a held-out set and appends one result row per combination,
// resuming interrupted runs from their result file.
package trainer
