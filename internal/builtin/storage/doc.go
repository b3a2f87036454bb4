// SPDX-License-Identifier: MPL-2.0

// Package storage provides the built-in storage and query evaluation
// components every storage object builder starts from: the memkv database,
// the std and lz4 statistics processors, the std vector storage, roaring
// bitmap join operators, weighting functions, the matchpos summarizer and
// the CUE expression scalar function parser.
package storage
