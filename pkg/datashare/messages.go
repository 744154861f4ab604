package datashare

import (
	"errors"
	"fmt"

	"github.com/navikt/gds-console/pkg/service"
)

const (
	msgDataShareUpdated      = "Datashare updated successfully!!"
	msgDataShareUpdateFailed = "Failed to update datashare : "

	msgResourceDeleted      = " Success! Shared resource deleted successfully"
	msgResourceDeleteFailed = "Failed to delete Shared resource  : "

	msgResourceAdded      = "Success! Shared resource added successfully"
	msgResourceUpdated    = "Success! Shared resource updated successfully"
	msgResourceSaveFailed = "Failed to save Shared resource : "

	msgDataShareDeleted      = " Success! Datashare deleted successfully"
	msgDataShareDeleteFailed = "Failed to delete datashare : "

	msgDatasetRemoved      = "Success! Datashare removed from dataset successfully"
	msgDatasetRemoveFailed = "Failed to remove datashare from dataset "
	msgRequestDeleted      = "Success! Datashare request deleted successfully"
	msgRequestDeleteFailed = "Failed to delete datashare request "

	msgRequestAccepted     = "Success! Datashare request accepted successfully"
	msgRequestAcceptFailed = "Failed to accept datashare request "
)

const (
	ListingPath = "/gds/mydatasharelisting"
)

func DetailPath(id int64) string {
	return fmt.Sprintf("/gds/datashare/%d/detail", id)
}

func FullViewPath(id int64) string {
	return fmt.Sprintf("/gds/datashare/%d/fullview", id)
}

func DatasetDetailPath(datasetID int64) string {
	return fmt.Sprintf("/gds/dataset/%d/detail", datasetID)
}

// removesLink reports whether deleting the request removes an established
// link rather than withdrawing a pending request.
func removesLink(r *service.DataShareDataset) bool {
	return r.Status == service.DataShareDatasetStatusActive
}

func requestDeleteMessage(r *service.DataShareDataset, dataShareName string) string {
	if removesLink(r) {
		return fmt.Sprintf("Do you want to remove Dataset %d from %s", r.DatasetID, dataShareName)
	}

	return fmt.Sprintf("Do you want to delete request of Dataset %d", r.DatasetID)
}

func requestDeletedMessages(r *service.DataShareDataset) (success, failure string) {
	if removesLink(r) {
		return msgDatasetRemoved, msgDatasetRemoveFailed
	}

	return msgRequestDeleted, msgRequestDeleteFailed
}

func resourceDeleteMessage(r *service.SharedResource) string {
	return fmt.Sprintf("Are you sure you want to delete shared resource \"%s\" ?", r.Name)
}

func dataShareDeleteMessage(name string) string {
	return fmt.Sprintf("Are you sure you want to delete datashare \"%s\" ?", name)
}

type describer interface {
	Description() string
}

// failureMessage appends the backend supplied description to prefix when
// there is one.
func failureMessage(prefix string, err error) string {
	var d describer
	if errors.As(err, &d) && d.Description() != "" {
		return prefix + d.Description()
	}

	return prefix
}
