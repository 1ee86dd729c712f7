package locations

// referenceServices is the service line offered at every MedRehab Group
// clinic.
var referenceServices = []string{"Massage Therapy", "Physiotherapy", "Chiropractic Care"}

// ReferenceDirectory returns the static MedRehab Group clinic list, used when
// the upstream directory has never been reachable. Callers get a fresh copy.
func ReferenceDirectory() []ClinicLocation {
	out := make([]ClinicLocation, len(referenceDirectory))
	copy(out, referenceDirectory)
	return out
}

var referenceDirectory = []ClinicLocation{
	{
		ID:         "1",
		Name:       "MedRehab Group Richmond Hill",
		Address:    "955 Major Mackenzie Dr. West, Unit 106, Vaughan L6A 4P9",
		City:       "Vaughan",
		PostalCode: "L6A4P9",
		Phone:      "(905) 417-4499",
		Services:   referenceServices,
	},
	{
		ID:         "2",
		Name:       "MedRehab Group Brampton",
		Address:    "10 Earlsbridge Blvd, Brampton L7A 3P1",
		City:       "Brampton",
		PostalCode: "L7A3P1",
		Phone:      "(905) 970-0101",
		Services:   referenceServices,
	},
	{
		ID:         "3",
		Name:       "MedRehab Group Georgetown",
		Address:    "99 Sinclair Ave #110, Halton Hills L7G 5G1",
		City:       "Halton Hills",
		PostalCode: "L7G5G1",
		Phone:      "(905) 877-5900",
		Services:   referenceServices,
	},
	{
		ID:         "4",
		Name:       "MedRehab Group Pickering",
		Address:    "1105 Kingston Rd #11, Pickering L1V 1B5",
		City:       "Pickering",
		PostalCode: "L1V1B5",
		Phone:      "(905) 837-5000",
		Services:   referenceServices,
	},
	{
		ID:         "5",
		Name:       "MedRehab Group Toronto",
		Address:    "1670 Dufferin St. Suite B03, Toronto M6H 3M2",
		City:       "Toronto",
		PostalCode: "M6H3M2",
		Phone:      "(416) 656-6800",
		Services:   referenceServices,
	},
	{
		ID:         "6",
		Name:       "MedRehab Group Woodbridge",
		Address:    "8333 Weston Rd., Woodbridge L4L 8E2",
		City:       "Woodbridge",
		PostalCode: "L4L8E2",
		Phone:      "(905) 264-6311",
		Services:   referenceServices,
	},
	{
		ID:         "7",
		Name:       "MedRehab Group Hamilton",
		Address:    "631 Queenston Road, Suite 302, Hamilton L8K 6R5",
		City:       "Hamilton",
		PostalCode: "L8K6R5",
		Phone:      "(905) 561-6500",
		Services:   referenceServices,
	},
	{
		ID:         "8",
		Name:       "MedRehab Group North York",
		Address:    "1275 Finch Avenue West, North York M3J 2B1",
		City:       "North York",
		PostalCode: "M3J2B1",
		Phone:      "(416) 628-8858",
		Services:   referenceServices,
	},
	{
		ID:         "9",
		Name:       "MedRehab Group Vaughan",
		Address:    "10395 Weston Rd., Woodbridge L4H 3T4",
		City:       "Woodbridge",
		PostalCode: "L4H3T4",
		Phone:      "905-265-8966",
		Services:   referenceServices,
	},
	{
		ID:         "10",
		Name:       "MedRehab Group Concord",
		Address:    "80 Bass Pro Mills Drive, Concord L4K 5W9",
		City:       "Concord",
		PostalCode: "L4K5W9",
		Phone:      "905-798-1165",
		Services:   referenceServices,
	},
	{
		ID:         "11",
		Name:       "MedRehab Group Newmarket",
		Address:    "181 Green Ln East #2 East Gwillimbury, East Gwillimbury L9N 0C9",
		City:       "East Gwillimbury",
		PostalCode: "L9N0C9",
		Phone:      "289-319-0867",
		Services:   referenceServices,
	},
	{
		ID:         "12",
		Name:       "MedRehab Brampton West",
		Address:    "305 Royal West Drive Unit H, Brampton L6X5K8",
		City:       "Brampton",
		PostalCode: "L6X5K8",
		Phone:      "647-925-6833",
		Services:   referenceServices,
	},
}
