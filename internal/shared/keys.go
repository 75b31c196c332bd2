package shared

import "fmt"

// DraftSnapshotKey builds redis keys for saved order draft snapshots.
func DraftSnapshotKey(orderID string) string {
	return fmt.Sprintf("sales:order:draft:%s", orderID)
}
