package util

// Collections
const (
	PatientCollection             = "patients"
	PatientHistoryCollection      = "patient_history"
	CounterCollection             = "counters"
	SectionCollection             = "sections"
	WardCollection                = "wards"
	EmergencyMedicationCollection = "emergency_medications"
	InvestigationCollection       = "investigations"
	LabReportCollection           = "lab_reports"
	UploadBucket                  = "uploads"
)

// Cache keys
const (
	PatientKey = "patient:"
	DraftKey   = "discharge-draft:"
)

// Counters
const (
	OPDCounter     = "opdNumber"
	IPDCounter     = "ipdNumber"
	PatientCounter = "patientId"
)

const (
	SUCCESS              = "success"
	SOMETHING_WENT_WRONG = "Something went wrong, please try again later"

	CREATED_SUCCESSFULLY = "Created successfully"
	UPDATED_SUCCESSFULLY = "Updated successfully"
	DELETED_SUCCESSFULLY = "Deleted successfully"

	MISSING_TOKEN             = "Authorization token is missing"
	INVALID_TOKEN             = "Authorization token is invalid or expired"
	INVALID_USER_TO_ACCESS    = "This user does not have access"
	UNABLE_TO_FETCH_CALLER    = "Unable to fetch caller from context"
	TOO_MANY_REQUESTS         = "Too many requests"
	SERVICE_UNAVAILABLE       = "A backing service is unavailable"
	PATIENT_ID_REQUIRED       = "patientId is required"
	ADMISSION_ID_REQUIRED     = "admissionId is required"
	PATIENT_NOT_FOUND         = "Patient not found"
	PATIENT_ALREADY_EXISTS    = "Patient with this patientId already exists"
	ADMISSION_NOT_FOUND       = "Admission not found"
	HISTORY_NOT_FOUND         = "Patient history not found"
	NAME_REQUIRED             = "name is required"
	INVALID_GENDER            = "gender must be Male, Female or Other"
	INVALID_PENDING_AMOUNT    = "pendingAmount must be a non-negative number"
	INVALID_AGE               = "age must be a non-negative number"
	REASON_REQUIRED           = "reason is required"
	DOCTOR_ID_REQUIRED        = "doctor id is required"
	PATIENT_UPDATE_CONFLICT   = "Patient was updated concurrently, please retry"
	ADMISSION_NOT_ACTIVE      = "Admission is no longer active"
	INVALID_CLINICAL_KIND     = "Unknown clinical record type"
	CLINICAL_ENTRY_EMPTY      = "Clinical entry has no content"
	ROLE_NOT_ALLOWED_FOR_KIND = "This role cannot add this clinical record type"

	DUPLICATE_ACTIVE_ADMISSION        = "Patient already has an active admission"
	ALREADY_ADMITTED                  = "Patient is already admitted"
	NOT_ASSIGNED_DOCTOR               = "Only the assigned doctor can perform this action"
	INVALID_CONDITION_AT_DISCHARGE    = "conditionAtDischarge must be one of Discharged, Transferred, D.A.M.A., Absconded, Expired"
	INVALID_AMOUNT                    = "amountToBePayed must be a non-negative number"
	DISCHARGE_CONDITION_ALREADY_SET   = "Discharge condition has already been set"
	DISCHARGE_CONDITION_NOT_SET       = "Discharge condition must be set before discharge"
	ADMISSION_ALREADY_DISCHARGED      = "Admission is already discharged"
	SUMMARY_ALREADY_EXISTS            = "Discharge summary already exists for this admission"
	SUMMARY_FIELDS_REQUIRED           = "finalDiagnosis, complaints, examinationFindings and conditionOnDischarge are required"
	DRAFT_NOT_FOUND                   = "Discharge summary draft not found or expired"
	DRAFT_SIGNATURE_INVALID           = "Discharge summary draft failed integrity check"
	PDF_RENDER_FAILED                 = "Failed to render discharge summary"
	FILE_UPLOAD_FAILED                = "Failed to upload discharge summary"
	FILE_NOT_FOUND                    = "File not found"
	SECTION_NOT_FOUND                 = "Section not found"
	SECTION_ALREADY_EXISTS            = "Section with this name already exists"
	INVALID_BED_NUMBER                = "bedNumber is outside the section's bed range"
	INVALID_TOTAL_BEDS                = "beds must be a positive number"
	WARD_NOT_FOUND                    = "Ward not found"
	WARD_UPDATE_CONFLICT              = "Ward was updated concurrently, please retry"
	WARD_ALREADY_EXISTS               = "Ward with this name already exists"
	INVALID_SHIFT                     = "shift must be Morning, Evening or Night"
	NURSE_ID_REQUIRED                 = "nurseId is required"
	NURSE_ALREADY_ASSIGNED            = "Nurse already holds an active assignment for this shift on this ward"
	ASSIGNMENT_NOT_FOUND              = "Nurse assignment not found"
	INVALID_TREATMENT_TYPE            = "type must be medications, ivFluids, procedures or specialInstructions"
	TREATMENT_NAME_REQUIRED           = "name or instruction is required"
	TREATMENT_ITEM_NOT_FOUND          = "Treatment item not found"
	TREATMENT_ALREADY_FINALIZED       = "Treatment item is no longer pending"
	EMERGENCY_MEDICATION_NOT_FOUND    = "Emergency medication not found"
	EMERGENCY_MEDICATION_CONFLICT     = "Emergency medication was updated concurrently, please retry"
	INVALID_REVIEW_DECISION           = "status must be Approved, Rejected or PendingDoctorApproval"
	EMERGENCY_MEDICATION_NOT_PENDING  = "Emergency medication has already been reviewed"
	EMERGENCY_MEDICATION_NOT_AWAITING = "Emergency medication is not awaiting doctor approval"
	INVESTIGATION_TESTS_REQUIRED      = "tests must contain at least one test"
	INVESTIGATION_NOT_FOUND           = "Investigation not found"
	LAB_REPORT_FIELDS_REQUIRED        = "testName and result are required"
	EMERGENCY_FIELDS_REQUIRED         = "name, dosage and reason are required"
	INVALID_PRIORITY                  = "priority must be Routine, Urgent or STAT"
)
