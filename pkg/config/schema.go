package config

// configSchema constrains the shape of the configuration file before it is
// decoded into the typed snapshot. Range floors that depend on defaults
// (refreshRate) are enforced after decode, not here.
const configSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "credentials": {
      "type": "object",
      "properties": {
        "openToken": {"type": "string", "minLength": 1}
      }
    },
    "devicediscovery": {"type": "boolean"},
    "options": {
      "type": "object",
      "properties": {
        "refreshRate": {"type": "number", "minimum": 0},
        "pushRate": {"type": "number", "minimum": 0},
        "hide_device": {"type": "array", "items": {"type": "string"}},
        "bot": {
          "type": "object",
          "properties": {
            "device_switch": {"type": "array", "items": {"type": "string"}},
            "device_press": {"type": "array", "items": {"type": "string"}}
          }
        },
        "meter": {
          "type": "object",
          "properties": {
            "unit": {"type": "integer", "enum": [0, 1]},
            "hide_temperature": {"type": "boolean"},
            "hide_humidity": {"type": "boolean"}
          }
        },
        "humidifier": {
          "type": "object",
          "properties": {
            "hide_temperature": {"type": "boolean"},
            "set_minStep": {"type": "integer", "minimum": 1}
          }
        },
        "curtain": {
          "type": "object",
          "properties": {
            "disable_group": {"type": "boolean"},
            "refreshRate": {"type": "integer", "minimum": 1},
            "set_min": {"type": "integer", "minimum": 0, "maximum": 100},
            "set_max": {"type": "integer", "minimum": 0, "maximum": 100},
            "set_minStep": {"type": "integer", "minimum": 1}
          }
        },
        "fan": {
          "type": "object",
          "properties": {
            "swing_mode": {"type": "array", "items": {"type": "string"}},
            "rotation_speed": {"type": "array", "items": {"type": "string"}},
            "set_min": {"type": "integer", "minimum": 0},
            "set_max": {"type": "integer", "minimum": 0},
            "set_minStep": {"type": "integer", "minimum": 1}
          }
        },
        "irair": {
          "type": "object",
          "properties": {
            "hide_automode": {"type": "boolean"}
          }
        },
        "other": {
          "type": "object",
          "properties": {
            "deviceType": {"type": "string"},
            "commandOn": {"type": "string"},
            "commandOff": {"type": "string"}
          }
        }
      }
    }
  }
}`
