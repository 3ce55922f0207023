package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmcalloway/ipmigrate/internal/schema"
)

func TestKeySet(t *testing.T) {
	ds := mustParse(t, "client_id,client_name\n"+
		"CL-0001,Acme\n"+
		"CL-0002,Beta\n"+
		",Orphan\n")

	keys := KeySet(ds, schema.Clients)

	assert.Len(t, keys, 2)
	assert.True(t, keys["CL-0001"])
	assert.False(t, keys[""])
}

func TestCheckClientReferences(t *testing.T) {
	clients := map[string]bool{"CL-0001": true}
	checker := NewRefChecker(clients, nil, nil)

	ds := mustParse(t, "patent_id,client_id,title\n"+
		"PT-0001,CL-0001,Widget\n"+
		"PT-0002,CL-9999,Gadget\n"+
		"PT-0003,,Gizmo\n")

	findings, checked := checker.Check(ds, schema.Patents)

	// Exactly one dangling reference; empty references are not findings.
	assert.Len(t, findings, 1)
	assert.Equal(t, "PT-0002", findings[0].RecordID)
	assert.Contains(t, findings[0].Message, "CL-9999")
	assert.Equal(t, 3, checked)
}

func TestCheckSkipsWhenClientSetUnavailable(t *testing.T) {
	checker := NewRefChecker(nil, nil, nil)

	ds := mustParse(t, "patent_id,client_id,title\n"+
		"PT-0001,CL-9999,Widget\n")

	findings, checked := checker.Check(ds, schema.Patents)

	assert.Empty(t, findings)
	assert.Zero(t, checked)
}

func TestCheckDeadlineRelatedReferences(t *testing.T) {
	checker := NewRefChecker(
		map[string]bool{"CL-0001": true},
		map[string]bool{"PT-0001": true},
		map[string]bool{"TM-0001": true},
	)

	ds := mustParse(t, "deadline_id,client_id,related_type,related_id,due_date,status\n"+
		"DL-0001,CL-0001,patent,PT-0001,2025-01-01,pending\n"+
		"DL-0002,CL-0001,Patent,PT-9999,2025-01-01,pending\n"+
		"DL-0003,CL-0001,trademark,TM-9999,2025-01-01,pending\n"+
		"DL-0004,CL-0001,trademark,TM-0001,2025-01-01,pending\n")

	findings, checked := checker.Check(ds, schema.Deadlines)

	// 4 client refs + 4 related refs.
	assert.Equal(t, 8, checked)
	assert.Len(t, findings, 2)

	byRecord := map[string]Finding{}
	for _, f := range findings {
		byRecord[f.RecordID] = f
	}
	assert.Contains(t, byRecord["DL-0002"].Message, "patent")
	assert.Contains(t, byRecord["DL-0003"].Message, "trademark")
}

func TestCheckClientsNotSelfChecked(t *testing.T) {
	checker := NewRefChecker(map[string]bool{"CL-0001": true}, nil, nil)

	ds := mustParse(t, "client_id,client_name\n"+
		"CL-9999,Ghost\n")

	findings, _ := checker.Check(ds, schema.Clients)

	assert.Empty(t, findings)
}
