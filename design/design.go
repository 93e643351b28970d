package design

import (
    . "goa.design/goa/v3/dsl"
)

// API definition
var _ = API("parkwatch", func() {
    Title("Parkwatch Occupancy Monitor")
    Description("Adaptive parking-space occupancy detection over camera streams")
    Version("1.0")
    Server("parkwatch", func() {
        Host("localhost", func() {
            URI("http://localhost:8080")
        })
    })
})

// Error types
var NotFoundError = Type("NotFoundError", func() {
    Description("Resource not found error")
    Field(1, "message", String, "Error message")
    Field(2, "id", String, "Resource ID")
    Required("message", "id")
})

var BadRequestError = Type("BadRequestError", func() {
    Description("Bad request error")
    Field(1, "message", String, "Error message")
    Field(2, "details", String, "Error details")
    Required("message")
})

var InternalError = Type("InternalError", func() {
    Description("Internal server error")
    Field(1, "message", String, "Error message")
    Required("message")
})

// Data types
var StreamInfo = Type("StreamInfo", func() {
    Description("Monitored stream information")
    Field(1, "id", String, "Stream identifier")
    Field(2, "name", String, "Stream display name")
    Field(3, "device", String, "Video device path or stream URL")
    Field(4, "status", String, "Stream status", func() {
        Enum("active", "inactive", "error")
    })
    Field(5, "threshold", Int, "Pixel-count threshold currently in effect")
    Required("id", "name", "device", "status")
})

var OccupancySnapshot = Type("OccupancySnapshot", func() {
    Description("Point-in-time occupancy summary")
    Field(1, "id", String, "Snapshot identifier", func() {
        Format(FormatUUID)
    })
    Field(2, "stream_id", String, "Stream ID")
    Field(3, "timestamp", String, "Snapshot timestamp", func() {
        Format(FormatDateTime)
    })
    Field(4, "threshold", Int, "Threshold in effect")
    Field(5, "total_spaces", Int, "Total monitored spaces")
    Field(6, "free_spaces", Int, "Spaces classified as free")
    Field(7, "occupancy_rate", Float64, "Percentage of spaces occupied")
    Required("id", "stream_id", "timestamp", "total_spaces", "free_spaces")
})

var CalibrationSession = Type("CalibrationSession", func() {
    Description("One calibration session and its derived thresholds")
    Field(1, "id", String, "Session identifier", func() {
        Format(FormatUUID)
    })
    Field(2, "stream_id", String, "Stream ID")
    Field(3, "timestamp", String, "Calibration timestamp", func() {
        Format(FormatDateTime)
    })
    Field(4, "threshold", Int, "Optimal pixel-count threshold")
    Field(5, "low_threshold", Int, "Sensitive threshold variant")
    Field(6, "high_threshold", Int, "Conservative threshold variant")
    Field(7, "mean_empty", Float64, "Mean pixel count of the empty cluster")
    Field(8, "mean_occupied", Float64, "Mean pixel count of the occupied cluster")
    Field(9, "brightness_avg", Float64, "Average frame brightness during calibration")
    Field(10, "samples_analyzed", Int, "Samples used to derive the threshold")
    Field(11, "reason", String, "What triggered the session", func() {
        Enum("startup", "drift")
    })
    Required("id", "stream_id", "timestamp", "threshold")
})

// Health check service
var _ = Service("health", func() {
    Description("Health check endpoints")

    Method("healthz", func() {
        Description("Liveness probe endpoint")
        Result(String)
        HTTP(func() {
            GET("/healthz")
            Response(StatusOK)
        })
    })
})

// Stream service
var _ = Service("streams", func() {
    Description("Monitored streams and their occupancy history")
    Error("not_found", NotFoundError)
    Error("bad_request", BadRequestError)
    Error("internal", InternalError)

    Method("list", func() {
        Description("List all monitored streams")
        Result(ArrayOf(StreamInfo))
        HTTP(func() {
            GET("/api/streams")
            Response(StatusOK)
        })
    })

    Method("occupancy", func() {
        Description("List recent occupancy snapshots for a stream")
        Payload(func() {
            Field(1, "stream_id", String, "Stream ID")
            Field(2, "since", String, "Only snapshots at or after this RFC3339 time")
            Field(3, "limit", Int, "Maximum number of snapshots")
            Required("stream_id")
        })
        Result(ArrayOf(OccupancySnapshot))
        HTTP(func() {
            GET("/api/streams/{stream_id}/occupancy")
            Param("since")
            Param("limit")
            Response(StatusOK)
            Response("not_found", StatusNotFound)
        })
    })

    Method("calibrations", func() {
        Description("List calibration sessions for a stream")
        Payload(func() {
            Field(1, "stream_id", String, "Stream ID")
            Field(2, "limit", Int, "Maximum number of sessions")
            Required("stream_id")
        })
        Result(ArrayOf(CalibrationSession))
        HTTP(func() {
            GET("/api/streams/{stream_id}/calibrations")
            Param("limit")
            Response(StatusOK)
            Response("not_found", StatusNotFound)
        })
    })
})

// Auth service
var _ = Service("authentication", func() {
    Description("Operator login issuing subscription tokens")
    Error("unauthorized", BadRequestError)

    Method("login", func() {
        Description("Exchange credentials for a bearer token")
        Payload(func() {
            Field(1, "username", String, "Operator username")
            Field(2, "password", String, "Operator password")
            Required("username", "password")
        })
        Result(func() {
            Field(1, "token", String, "Bearer token")
            Field(2, "expires_at", Int64, "Unix expiry timestamp")
            Required("token", "expires_at")
        })
        HTTP(func() {
            POST("/api/login")
            Response(StatusOK)
            Response("unauthorized", StatusUnauthorized)
        })
    })
})
