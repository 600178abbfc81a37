package application

import (
	"github.com/xeipuuv/gojsonschema"

	"github.com/felixgeelhaar/sprintplan/pkg/storage"
)

const sprintSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["id", "start"],
  "properties": {
    "id": { "type": "string", "minLength": 1 },
    "name": { "type": "string" },
    "start": { "type": "string" },
    "end": { "type": "string" },
    "status": { "enum": ["", "created", "started", "closed"] },
    "default_calendar": { "type": "string" },
    "now": { "type": "string" },
    "started_at": { "type": "string" },
    "closed_at": { "type": "string" }
  },
  "additionalProperties": false
}`

const tasksSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "tasks": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["id", "name"],
        "properties": {
          "id": { "type": "integer", "minimum": 1 },
          "name": { "type": "string" },
          "work": { "type": "string", "pattern": "^\\s*(\\d+(\\.\\d+)?[mhdw]\\s*)*$" },
          "mode": { "enum": ["", "auto", "manual"] },
          "manual_start": { "type": "string" },
          "resource": { "type": "string" },
          "availability": { "type": "number", "exclusiveMinimum": 0, "maximum": 1 },
          "parent": { "type": "integer", "minimum": 0 },
          "predecessors": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["id"],
              "properties": {
                "id": { "type": "integer", "minimum": 1 },
                "kind": { "enum": ["", "display", "leveling"] }
              },
              "additionalProperties": false
            }
          },
          "milestone": { "type": "boolean" },
          "buffer": { "type": "boolean" },
          "calendar": { "type": "string" }
        },
        "additionalProperties": false
      }
    }
  }
}`

const windowSchemaJSON = `{
  "type": "object",
  "required": ["start", "end"],
  "properties": {
    "start": { "type": "string", "pattern": "^\\d{1,2}:\\d{2}$" },
    "end": { "type": "string", "pattern": "^\\d{1,2}:\\d{2}$" }
  }
}`

const calendarsSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "calendars": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": { "type": "string", "minLength": 1 },
          "timezone": { "type": "string" },
          "working_days": { "type": "array", "items": { "type": "string" } },
          "windows": { "type": "array", "items": ` + windowSchemaJSON + ` },
          "exceptions": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["date"],
              "properties": {
                "date": { "type": "string" },
                "until": { "type": "string" },
                "label": { "type": "string" },
                "kind": { "enum": ["", "holiday", "vacation", "sick", "trip", "special"] },
                "windows": { "type": "array", "items": ` + windowSchemaJSON + ` }
              }
            }
          },
          "holidays": { "type": "string" }
        },
        "additionalProperties": false
      }
    }
  }
}`

const teamSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "resources": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["id"],
        "properties": {
          "id": { "type": "string", "minLength": 1 },
          "name": { "type": "string" },
          "calendar": { "type": "string" },
          "availability": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["from", "fraction"],
              "properties": {
                "from": { "type": "string" },
                "fraction": { "type": "number", "exclusiveMinimum": 0, "maximum": 1 }
              }
            }
          },
          "off_days": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["from"],
              "properties": {
                "from": { "type": "string" },
                "until": { "type": "string" },
                "kind": { "enum": ["", "vacation", "sick", "trip"] },
                "label": { "type": "string" }
              }
            }
          },
          "locations": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["from", "region"],
              "properties": {
                "from": { "type": "string" },
                "region": { "type": "string" }
              }
            }
          }
        },
        "additionalProperties": false
      }
    }
  }
}`

const worklogsSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "entries": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["id", "author", "task", "start", "time_spent"],
        "properties": {
          "id": { "type": "string", "minLength": 1 },
          "author": { "type": "string", "minLength": 1 },
          "task": { "type": "integer", "minimum": 1 },
          "start": { "type": "string" },
          "time_spent": { "type": "string" },
          "comment": { "type": "string" }
        }
      }
    },
    "remaining": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["author", "task", "remaining"],
        "properties": {
          "author": { "type": "string" },
          "task": { "type": "integer", "minimum": 1 },
          "remaining": { "type": "string" }
        }
      }
    }
  }
}`

var workspaceSchemas = map[string]gojsonschema.JSONLoader{
	storage.SprintFile:    gojsonschema.NewStringLoader(sprintSchemaJSON),
	storage.TasksFile:     gojsonschema.NewStringLoader(tasksSchemaJSON),
	storage.CalendarsFile: gojsonschema.NewStringLoader(calendarsSchemaJSON),
	storage.TeamFile:      gojsonschema.NewStringLoader(teamSchemaJSON),
	storage.WorklogsFile:  gojsonschema.NewStringLoader(worklogsSchemaJSON),
}
