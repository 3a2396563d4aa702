package layout

import "crypto/sha256"

// depthJitterRange bounds the cosmetic depth offset to -2..+2.
const depthJitterRange = 5

// depthJitter maps a person id to a small depth offset used as the Z
// coordinate. The value is cosmetic de-overlap for 3D renderers, not
// semantically meaningful, and must be stable across runs: the same id
// always yields the same offset, so re-layouts do not make nodes wander.
func depthJitter(id string) float64 {
	sum := sha256.Sum256([]byte(id))
	return float64(int(sum[0])%depthJitterRange - depthJitterRange/2)
}
