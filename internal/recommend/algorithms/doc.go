// Animerec - Anime Recommendation Service
// Copyright 2026 Hoshizora Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/hoshizora-labs/animerec

// Package algorithms implements the two ranking models behind the
// recommendation engine.
//
// ContentModel builds weighted feature vectors from catalog metadata and
// precomputes pairwise cosine similarities. Factorization learns user and
// item embeddings from explicit ratings with biased SGD matrix
// factorization. Both models are immutable once built or trained, so reads
// need no locking; the engine swaps whole models when retraining.
package algorithms
